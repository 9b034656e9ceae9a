package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func init() {
	foldersCmd := &cobra.Command{Use: "folders", Short: "Folder operations"}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().R().Get("/v1/rag")
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	foldersCmd.AddCommand(listCmd)

	createCmd := &cobra.Command{
		Use:   "create FOLDER",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().R().
				SetBody(map[string]string{"folder_name": args[0]}).
				Post("/v1/rag")
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	foldersCmd.AddCommand(createCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete FOLDER",
		Short: "Delete a folder and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().R().Delete("/v1/rag/" + args[0])
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	foldersCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(foldersCmd)

	filesCmd := &cobra.Command{Use: "files", Short: "File operations"}

	filesListCmd := &cobra.Command{
		Use:   "list FOLDER",
		Short: "List files in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().R().Get("/v1/rag/" + args[0])
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	filesCmd.AddCommand(filesListCmd)

	uploadCmd := &cobra.Command{
		Use:   "upload FOLDER FILE...",
		Short: "Upload local files into a folder",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := newClient().R()
			for _, path := range args[1:] {
				f, err := os.Open(filepath.Clean(path))
				if err != nil {
					return fmt.Errorf("cannot read %s: %w", path, err)
				}
				defer f.Close()
				req.SetFileReader("files", filepath.Base(path), f)
			}
			resp, err := req.Post("/v1/rag/" + args[0])
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	filesCmd.AddCommand(uploadCmd)

	filesDeleteCmd := &cobra.Command{
		Use:   "delete FOLDER FILE",
		Short: "Delete one file from a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().R().Delete("/v1/rag/" + args[0] + "/" + args[1])
			if err != nil {
				return err
			}
			return printResponse(resp)
		},
	}
	filesCmd.AddCommand(filesDeleteCmd)

	rootCmd.AddCommand(filesCmd)
}
