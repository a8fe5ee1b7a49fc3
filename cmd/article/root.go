package article

import (
	"github.com/ValentinKolb/aKV/cmd/util"
	"github.com/ValentinKolb/aKV/lib/store"
	"github.com/ValentinKolb/aKV/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcStore store.IArticleStore

	// ArticleCommands represents the article command group
	ArticleCommands = &cobra.Command{
		Use:               "article",
		Short:             "Perform article store operations",
		PersistentPreRunE: setupArticleClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the article command
	util.SetupRPCClientFlags(ArticleCommands)

	// Set default shard ID for article operations
	ArticleCommands.PersistentFlags().Int("shard", 0, util.WrapString("ID of the shard to connect to"))

	// Add subcommands
	ArticleCommands.AddCommand(listCmd)
	ArticleCommands.AddCommand(byAuthorCmd)
	ArticleCommands.AddCommand(getCmd)
	ArticleCommands.AddCommand(createCmd)
	ArticleCommands.AddCommand(updateCmd)
	ArticleCommands.AddCommand(delCmd)
	ArticleCommands.AddCommand(favoriteCmd)
	ArticleCommands.AddCommand(perfTestCmd)
}

// setupArticleClient initializes the RPC article store client
func setupArticleClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	shardId := util.GetShardID()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetTransport()
	if err != nil {
		return err
	}

	// Create the article store client
	rpcStore, err = client.NewRPCArticleStore(
		shardId,
		*config,
		t,
		s,
		util.GetArticleSerializer(),
	)

	return err
}
