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
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/redgoat650/mynft/internal/config"
	"github.com/redgoat650/mynft/internal/deploy"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	artifactFlagName  = "artifact"
	artifactShorthand = "a"
	nameFlagName      = "name"
	nameShorthand     = "n"
)

// deployCmd represents the deploy command
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the compiled contract and export its ABI",
	Long: `Deploy the compiled contract artifact to the configured network, wait
for confirmation, and write the ABI export next to the deployed address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := deploy.GetValidSettings()
		if err != nil {
			return errors.Wrap(err, "getting and validating deploy settings")
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		ec, err := client.Connect(ctx)
		if err != nil {
			return err
		}
		defer ec.Close()

		w, err := client.ConfiguredSigner()
		if err != nil {
			return err
		}

		d, err := deploy.Run(ctx, ec, w, s)
		if err != nil {
			return err
		}

		pterm.Success.Printfln("%s deployed at %s (chain %s, block %d)", d.ContractName, d.Address.Hex(), d.ChainID, d.BlockNumber)
		pterm.Info.Printfln("ABI written to %s", d.ABIPath)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().StringP(artifactFlagName, artifactShorthand, "", "path to the compiled contract artifact")
	deployCmd.Flags().StringP(nameFlagName, nameShorthand, "", "contract name, used for the ABI export file")

	viper.BindPFlag(config.ContractArtifactCfgPath, deployCmd.Flags().Lookup(artifactFlagName))
	viper.BindPFlag(config.ContractNameCfgPath, deployCmd.Flags().Lookup(nameFlagName))
}
