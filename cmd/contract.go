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
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pterm/pterm"
	"github.com/redgoat650/mynft/internal/client"
	"github.com/spf13/cobra"
)

type contractFunc func(ctx context.Context, b client.Backend, n *client.NFT) error

// withContract connects, binds the configured contract and runs fn inside
// the command's network deadline.
func withContract(cmd *cobra.Command, fn contractFunc) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	ec, err := client.Connect(ctx)
	if err != nil {
		return err
	}
	defer ec.Close()

	n, err := client.ConfiguredContract(ec)
	if err != nil {
		return err
	}

	return fn(ctx, ec, n)
}

type sendFunc func(w *client.Wallet) (*types.Transaction, error)

// sendAndWait signs with the configured wallet and blocks until the
// transaction is mined.
func sendAndWait(ctx context.Context, b client.Backend, send sendFunc) (*types.Receipt, error) {
	w, err := client.ConfiguredSigner()
	if err != nil {
		return nil, err
	}

	tx, err := send(w)
	if err != nil {
		return nil, err
	}

	pterm.Info.Printfln("sent %s from %s", tx.Hash().Hex(), w.Address.Hex())

	return client.Wait(ctx, b, tx)
}

// tokenIDArg parses the positional token id at index i.
func tokenIDArg(args []string, i int) (*big.Int, error) {
	return client.ParseTokenID(args[i])
}
