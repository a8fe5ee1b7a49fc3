package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/aKV/cmd/article"
	"github.com/ValentinKolb/aKV/cmd/serve"
	"github.com/ValentinKolb/aKV/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "akv",
		Short: "article store server and client",
		Long: fmt.Sprintf(`aKV (v%s)

An article store written in Go. Articles live in a sharded in-memory
key-value engine with a chronological index on top, served over RPC.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of aKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("aKV v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(article.ArticleCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob)"))
	key = "transport"
	RootCmd.PersistentFlags().String(key, "http", util.WrapString("transport to use (http)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
