package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	assert.Equal(t, 1337, v.GetInt(ChainIDCfgPath))
	assert.Equal(t, "MyNFT", v.GetString(ContractNameCfgPath))
	assert.Equal(t, 3, v.GetInt(HarnessRetriesCfgPath))
	assert.Equal(t, 60*time.Second, v.GetDuration(NetworkTimeoutCfgPath))
	assert.Equal(t, "abi", v.GetString(ABIDirCfgPath))
	assert.Empty(t, v.GetString(ContractAddressCfgPath))
}

func TestGlobalDefaultsRegistered(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:7545", viper.GetString(RPCURLCfgPath))
	assert.Equal(t, DefaultTokenURI, viper.GetString(HarnessTokenURICfgPath))
}
