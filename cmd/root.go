/*
Copyright © 2023 Nick Wright <nwright970@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/redgoat650/mynft/internal/config"
	"github.com/redgoat650/mynft/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "MYNFT"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mynft",
	Short: "Deploy and exercise the MyNFT ERC-721 contract",
	Long: `Deploy the compiled MyNFT contract, export its ABI, and run the
mint/ownerOf/balanceOf/safeTransferFrom/approve checks against a
local test network.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Init(logging.Options{
			Level: viper.GetString(config.LogLevelCfgPath),
			File:  viper.GetString(config.LogFileCfgPath),
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	defer logging.Sync()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mynft.yaml)")

	rootCmd.PersistentFlags().String("rpc-url", "", "JSON-RPC endpoint of the network")
	rootCmd.PersistentFlags().Int64("chain-id", config.DefaultChainID, "expected chain id")
	rootCmd.PersistentFlags().Duration("timeout", 0, "deadline for each command's network calls")
	rootCmd.PersistentFlags().String("private-key", "", "hex private key of the signing wallet")
	rootCmd.PersistentFlags().String("contract", "", "address of the deployed contract")
	rootCmd.PersistentFlags().String("abi-dir", "", "directory holding the exported ABI")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to a rotating file instead of stderr")

	viper.BindPFlag(config.RPCURLCfgPath, rootCmd.PersistentFlags().Lookup("rpc-url"))
	viper.BindPFlag(config.ChainIDCfgPath, rootCmd.PersistentFlags().Lookup("chain-id"))
	viper.BindPFlag(config.NetworkTimeoutCfgPath, rootCmd.PersistentFlags().Lookup("timeout"))
	viper.BindPFlag(config.PrivateKeyCfgPath, rootCmd.PersistentFlags().Lookup("private-key"))
	viper.BindPFlag(config.ContractAddressCfgPath, rootCmd.PersistentFlags().Lookup("contract"))
	viper.BindPFlag(config.ABIDirCfgPath, rootCmd.PersistentFlags().Lookup("abi-dir"))
	viper.BindPFlag(config.LogLevelCfgPath, rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag(config.LogFileCfgPath, rootCmd.PersistentFlags().Lookup("log-file"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".mynft")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			cobra.CheckErr(errors.Wrap(err, "reading config"))
		}
	}
}

// commandContext bounds a command's network calls by network.timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), viper.GetDuration(config.NetworkTimeoutCfgPath))
}
