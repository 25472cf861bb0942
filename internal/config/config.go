package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	RPCURLCfgPath         = "network.rpc-url"
	ChainIDCfgPath        = "network.chain-id"
	NetworkTimeoutCfgPath = "network.timeout"

	PrivateKeyCfgPath = "wallet.private-key"
	RecipientCfgPath  = "wallet.recipient"

	ContractNameCfgPath     = "contract.name"
	ContractArtifactCfgPath = "contract.artifact"
	ContractAddressCfgPath  = "contract.address"

	ABIDirCfgPath = "abi.dir"

	HarnessRetriesCfgPath  = "harness.retries"
	HarnessTokenURICfgPath = "harness.token-uri"

	LogLevelCfgPath = "log.level"
	LogFileCfgPath  = "log.file"

	DevnetImageCfgPath = "devnet.image"
	DevnetPortCfgPath  = "devnet.port"

	IPFSGatewayCfgPath = "metadata.ipfs-gateway"
)

// Ganache deterministic accounts 0 and 1 (mnemonic "myth like bonus scare ...").
const (
	DefaultPrivateKey = "0x4f3edf983ac636a65a842ce7c78d9aa706d3b113bce9c46f30d7d21715b23b1d"
	DefaultRecipient  = "0xFFcf8FDEE72ac11b5c542428B35EEF5769C409f0"
)

const (
	DefaultChainID      = 1337
	DefaultContractName = "MyNFT"
	DefaultTokenURI     = "https://example.com/metadata/0"
	DefaultRetries      = 3
)

func init() {
	SetDefaults(viper.GetViper())
}

// SetDefaults registers every default on v. It is applied to the global
// viper instance at init and can be reused for isolated instances in tests.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(RPCURLCfgPath, "http://127.0.0.1:7545")
	v.SetDefault(ChainIDCfgPath, DefaultChainID)
	v.SetDefault(NetworkTimeoutCfgPath, 60*time.Second)

	v.SetDefault(PrivateKeyCfgPath, DefaultPrivateKey)
	v.SetDefault(RecipientCfgPath, DefaultRecipient)

	v.SetDefault(ContractNameCfgPath, DefaultContractName)
	v.SetDefault(ContractArtifactCfgPath, "artifacts/contracts/MyNFT.sol/MyNFT.json")
	v.SetDefault(ContractAddressCfgPath, "")

	v.SetDefault(ABIDirCfgPath, "abi")

	v.SetDefault(HarnessRetriesCfgPath, DefaultRetries)
	v.SetDefault(HarnessTokenURICfgPath, DefaultTokenURI)

	v.SetDefault(LogLevelCfgPath, "info")
	v.SetDefault(LogFileCfgPath, "")

	v.SetDefault(DevnetImageCfgPath, "trufflesuite/ganache:latest")
	v.SetDefault(DevnetPortCfgPath, 7545)

	v.SetDefault(IPFSGatewayCfgPath, "https://ipfs.io/ipfs/")
}
