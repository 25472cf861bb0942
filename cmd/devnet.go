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
	"github.com/pterm/pterm"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/redgoat650/mynft/internal/config"
	"github.com/redgoat650/mynft/internal/devnet"
	"github.com/redgoat650/mynft/internal/dockerutil"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const dockerHostFlagName = "docker-host"

// devnetCmd represents the devnet command
var devnetCmd = &cobra.Command{
	Use:   "devnet",
	Short: "Manage a local ganache network in docker",
	Long: `Manage a local ganache network in docker. It runs with the configured
chain id and deterministic accounts, so the default wallet settings work
against it unchanged.`,
}

// devnetStartCmd represents the devnet start command
var devnetStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the local network",
	Long:  `Start the local network unless it is already running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := newDevnet(cmd)
		if err != nil {
			return err
		}

		if err := n.LaunchSingletonGanache(cmd.Context()); err != nil {
			return err
		}

		pterm.Success.Printfln("devnet listening on %s", n.RPCURL())

		return nil
	},
}

// devnetStopCmd represents the devnet stop command
var devnetStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop and remove the local network",
	Long:  `Stop and remove the local network container.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := newDevnet(cmd)
		if err != nil {
			return err
		}

		return n.Stop(cmd.Context())
	},
}

// devnetStatusCmd represents the devnet status command
var devnetStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the local network is running",
	Long:  `Report whether the local network is running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := newDevnet(cmd)
		if err != nil {
			return err
		}

		up, err := n.Running(cmd.Context())
		if err != nil {
			return err
		}

		return client.Display(map[string]any{
			"container": devnet.ContainerName,
			"running":   up,
			"rpcUrl":    n.RPCURL(),
		})
	},
}

func newDevnet(cmd *cobra.Command) (*devnet.Devnet, error) {
	host, err := cmd.Flags().GetString(dockerHostFlagName)
	if err != nil {
		return nil, err
	}

	return devnet.New(dockerutil.New(host), devnet.Options{
		Image:   viper.GetString(config.DevnetImageCfgPath),
		Port:    viper.GetInt(config.DevnetPortCfgPath),
		ChainID: viper.GetInt64(config.ChainIDCfgPath),
	}), nil
}

func init() {
	rootCmd.AddCommand(devnetCmd)
	devnetCmd.AddCommand(devnetStartCmd)
	devnetCmd.AddCommand(devnetStopCmd)
	devnetCmd.AddCommand(devnetStatusCmd)

	devnetCmd.PersistentFlags().String(dockerHostFlagName, "", "docker daemon to run the network on")
}
