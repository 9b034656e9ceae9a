package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	var ragFlag string
	queryCmd := &cobra.Command{
		Use:   "query QUERY",
		Short: "Query a folder's documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if ragFlag == "" {
				return fmt.Errorf("--rag required (userId/folderName)")
			}
			resp, err := newClient().R().
				SetBody(map[string]string{"rag": ragFlag, "query": args[0]}).
				Post("/toolhouse-rag")
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	queryCmd.Flags().StringVarP(&ragFlag, "rag", "r", "", "Folder path as userId/folderName (required)")
	_ = queryCmd.MarkFlagRequired("rag")
	rootCmd.AddCommand(queryCmd)
}
