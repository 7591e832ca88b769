package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/govm-net/riffs/contracts"
	"github.com/govm-net/riffs/image"
	"github.com/spf13/cobra"
)

var (
	imageOutput string
	imageTag    string
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Build and inspect contract images",
}

var imageBuildCmd = &cobra.Command{
	Use:   "build <contract>",
	Short: "Build the image of a shipped contract",
	Long: `Build a WebAssembly image naming one of the shipped contracts.
Example: riffs image build registry -o registry.wasm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if _, ok := contracts.Factories()[name]; !ok {
			return fmt.Errorf("unknown contract %q, expected one of %v", name, contracts.Catalog().Names())
		}
		code, err := contracts.Image(name, imageTag)
		if err != nil {
			return err
		}
		if err := os.WriteFile(imageOutput, code, 0o644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s image (%d bytes) to %s\n", name, len(code), imageOutput)
		return nil
	},
}

var imageInspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Validate an image and print its manifest, exports and imports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		info, err := image.Inspect(cmd.Context(), code)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	imageBuildCmd.Flags().StringVarP(&imageOutput, "output", "o", "", "Output file (required)")
	imageBuildCmd.Flags().StringVarP(&imageTag, "tag", "t", "", "Tag distinguishing otherwise identical images")
	imageBuildCmd.MarkFlagRequired("output")
	imageCmd.AddCommand(imageBuildCmd)
	imageCmd.AddCommand(imageInspectCmd)
}
