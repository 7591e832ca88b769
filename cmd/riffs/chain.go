package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/govm-net/riffs/sandbox"
	"github.com/govm-net/riffs/types"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	callDeposit  string
	callGas      uint64
	callArgsFile string
)

// accountArg normalizes a user-typed account id.
func accountArg(s string) (types.AccountID, error) {
	return types.ParseAccountID(cases.Lower(language.Und).String(s))
}

// callArgs returns the inline argument or the content of --args-file.
func callArgs(args []string) ([]byte, error) {
	if callArgsFile != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("pass arguments inline or with --args-file, not both")
		}
		data, err := os.ReadFile(callArgsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read args file: %w", err)
		}
		return data, nil
	}
	if len(args) > 0 {
		return []byte(args[0]), nil
	}
	return nil, nil
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the genesis accounts of the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		chain, c, err := openChain(ctx)
		if err != nil {
			return err
		}
		defer chain.Close(ctx)

		n, err := c.Genesis(ctx, chain)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %d of %d genesis accounts\n", n, len(c.Accounts))
		return nil
	},
}

var callCmd = &cobra.Command{
	Use:   "call <signer> <receiver> <method> [args]",
	Short: "Sign and execute a function call",
	Long: `Execute a function call and every receipt it spawns.
Example: riffs call alice.near registry.near patch --args-file registry.wasm --deposit "1 NEAR"`,
	Args: cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := accountArg(args[0])
		if err != nil {
			return err
		}
		receiver, err := accountArg(args[1])
		if err != nil {
			return err
		}
		payload, err := callArgs(args[3:])
		if err != nil {
			return err
		}
		deposit, err := types.ParseBalance(callDeposit)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		chain, _, err := openChain(ctx)
		if err != nil {
			return err
		}
		defer chain.Close(ctx)

		o, err := chain.Call(ctx, sandbox.Tx{
			Signer:   signer,
			Receiver: receiver,
			Method:   args[2],
			Args:     payload,
			Deposit:  deposit,
			Gas:      types.Gas(callGas) * types.TGas,
		})
		if err != nil {
			return fmt.Errorf("failed to execute call: %w", err)
		}
		printOutcome(cmd.OutOrStdout(), o)
		if o.Failed() {
			return fmt.Errorf("transaction failed: %s", o.Err)
		}
		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:   "view <receiver> <method> [args]",
	Short: "Run a read-only call",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		receiver, err := accountArg(args[0])
		if err != nil {
			return err
		}
		payload, err := callArgs(args[2:])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		chain, _, err := openChain(ctx)
		if err != nil {
			return err
		}
		defer chain.Close(ctx)

		res, err := chain.View(ctx, receiver, args[1], payload)
		if err != nil {
			return err
		}
		for _, l := range res.Logs {
			fmt.Fprintf(cmd.OutOrStdout(), "log: %s\n", l)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(res.Value))
		return nil
	},
}

var stateCmd = &cobra.Command{
	Use:   "state <account>",
	Short: "Show an account and the methods of its contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := accountArg(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		chain, _, err := openChain(ctx)
		if err != nil {
			return err
		}
		defer chain.Close(ctx)

		acct, err := chain.Account(ctx, id)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(acct, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, string(out))
		if acct.Contract == "" {
			return nil
		}
		contract, err := chain.Catalog().Lookup(acct.Contract)
		if err != nil {
			return err
		}
		methods := make([]string, 0, len(contract.Methods()))
		for name := range contract.Methods() {
			methods = append(methods, name)
		}
		sort.Strings(methods)
		fmt.Fprintf(w, "%s methods:\n", cases.Title(language.English).String(acct.Contract))
		for _, m := range methods {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		return nil
	},
}

func printOutcome(w io.Writer, o *sandbox.Outcome) {
	for _, r := range o.Receipts {
		status := "ok"
		if r.Failed() {
			status = "failed: " + r.Err
		}
		fmt.Fprintf(w, "receipt %s -> %s.%s deposit=%s gas=%d %s\n",
			r.Predecessor, r.Receiver, r.Method, types.FormatBalance(r.Deposit), r.GasUsed, status)
		for _, l := range r.Logs {
			fmt.Fprintf(w, "  log: %s\n", l)
		}
	}
	fmt.Fprintf(w, "status: %s\n", o.Status)
	if len(o.Value) > 0 {
		fmt.Fprintf(w, "result: %s\n", o.Value)
	}
}

func init() {
	callCmd.Flags().StringVar(&callDeposit, "deposit", "0", `Attached deposit in yocto, or whole NEAR as "6 NEAR"`)
	callCmd.Flags().Uint64Var(&callGas, "gas", 0, "Prepaid gas in TGas; 0 uses the configured default")
	callCmd.Flags().StringVar(&callArgsFile, "args-file", "", "Read the call arguments from a file")
	viewCmd.Flags().StringVar(&callArgsFile, "args-file", "", "Read the call arguments from a file")
}
