package serve

import (
	"fmt"
	"strings"

	cmdUtil "github.com/ValentinKolb/aKV/cmd/util"
	"github.com/ValentinKolb/aKV/rpc/common"
	"github.com/ValentinKolb/aKV/rpc/serializer"
	"github.com/ValentinKolb/aKV/rpc/server"
	"github.com/ValentinKolb/aKV/rpc/transport"
	"github.com/ValentinKolb/aKV/rpc/transport/http"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start the aKV article store server",
		Long:    `Start the aKV article store server with the specified configuration. The configuration can be set via command line flags or environment variables. The format of the environment variables is AKV_<flag> (e.g. AKV_LOG_LEVEL=debug)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(initConfig)

	// add flags
	key := "shards"
	ServeCmd.PersistentFlags().Int(key, 1, cmdUtil.WrapString("Number of independent article store shards to serve. Each shard has its own records, index and slug space"))

	key = "snapshot-dir"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Directory for shard snapshots. When set, shards are restored from their snapshot files on startup and persisted on shutdown. Leave empty to serve purely from memory"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Timeout in seconds"))

	key = "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", cmdUtil.WrapString("The address on which the API will listen (e.g. localhost:8080)"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and environment variables and converts them to the server configuration
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// read the configuration from the command line flags and environment variables
	serveCmdConfig.Shards = viper.GetInt("shards")
	serveCmdConfig.SnapshotDir = viper.GetString("snapshot-dir")
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.Endpoint = viper.GetString("endpoint")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if serveCmdConfig.Shards < 1 {
		return fmt.Errorf("shards must be >= 1, got %d", serveCmdConfig.Shards)
	}

	return nil
}

// run starts the aKV server
func run(_ *cobra.Command, _ []string) error {

	// parse the serializer
	var s serializer.IRPCSerializer
	switch viper.GetString("serializer") {
	case "json":
		s = serializer.NewJSONSerializer()
	case "gob":
		s = serializer.NewGOBSerializer()
	default:
		return fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}

	// Parse the transport
	var t transport.IRPCServerTransport
	switch viper.GetString("transport") {
	case "http":
		t = http.NewHttpServerTransport()
	default:
		return fmt.Errorf("invalid transport %s", viper.GetString("transport"))
	}

	serv := server.NewRPCServer(
		*serveCmdConfig,
		t,
		s,
	)

	return serv.Serve()
}

// initConfig reads in serveCmdConfig file and ENV variables if set.
func initConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("akv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
