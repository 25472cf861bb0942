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
	"time"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/redgoat650/mynft/internal/config"
	"github.com/redgoat650/mynft/internal/harness"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	retriesFlagName    = "retries"
	retryDelayFlagName = "retry-delay"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the contract checks against the configured network",
	Long: `Run the contract checks against the configured network: chain id,
signer and contract binding, then mint, ownerOf, balanceOf,
safeTransferFrom and approve. The transfer and approval checks are
retried. Exits non-zero if any check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		delay, err := cmd.Flags().GetDuration(retryDelayFlagName)
		if err != nil {
			return err
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

		recipient, err := client.ConfiguredRecipient()
		if err != nil {
			return err
		}

		n, err := client.ConfiguredContract(ec)
		if err != nil {
			return err
		}

		s := &harness.Suite{
			Backend:         ec,
			Wallet:          w,
			NFT:             n,
			Recipient:       recipient,
			ExpectedChainID: client.ConfiguredChainID(),
			TokenURI:        viper.GetString(config.HarnessTokenURICfgPath),
			Retries:         viper.GetUint(config.HarnessRetriesCfgPath),
			RetryDelay:      delay,
		}

		if err := s.Validate(); err != nil {
			return errors.Wrap(err, "invalid check configuration")
		}

		results := s.Run(ctx)

		renderResults(results)

		if failed := harness.Failed(results); failed > 0 {
			return errors.Errorf("%d of %d checks failed", failed, len(results))
		}

		pterm.Success.Printfln("all %d checks passed", len(results))

		return nil
	},
}

func renderResults(results []harness.Result) {
	data := pterm.TableData{{"Check", "Result", "Attempts", "Duration", "Error"}}

	for _, r := range results {
		status := pterm.Green("PASS")
		msg := ""
		if !r.Passed {
			status = pterm.Red("FAIL")
			msg = r.Err.Error()
		}

		data = append(data, []string{r.Name, status, pterm.Sprint(r.Attempts), r.Duration.Round(time.Millisecond).String(), msg})
	}

	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().Uint(retriesFlagName, config.DefaultRetries, "retries for the transfer and approval checks")
	checkCmd.Flags().Duration(retryDelayFlagName, 0, "delay between retries")

	viper.BindPFlag(config.HarnessRetriesCfgPath, checkCmd.Flags().Lookup(retriesFlagName))
}
