package main

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hermannm.dev/devlog"
)

var (
	debug    bool
	keyFile  string
	logLevel slog.LevelVar
)

var rootCmd = &cobra.Command{
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Use:   "daecore",
	Short: "AES-SIV and KMAC cores exercised from the command line",
	Long: `daecore exposes two cryptographic cores: AES-SIV authenticated
encryption (RFC 5297) and the KMAC message authentication code family
(NIST SP 800-185). Each invocation is tagged with a correlation id in the
structured log it emits.
`,
}

// Execute adds all child commands to the root command and runs it. Called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stdout, &devlog.Options{
		Level: &logLevel,
	})))

	rootCmd.PersistentFlags().Bool("debug", false, "Print debug-level log lines")
	rootCmd.PersistentFlags().String("key-file", "", "Path to a file holding the hex-encoded key")
}

// invocationLogger is set by rootCmdLoadConfig in each subcommand's PreRunE and read back in its
// RunE, tagged with a fresh correlation id per invocation.
var invocationLogger *slog.Logger

// rootCmdLoadConfig binds the persistent flags through viper and sets invocationLogger.
// Subcommands call it from PreRunE after binding their own flags, mirroring the go-fdo-server
// root/subcommand split.
func rootCmdLoadConfig(cmd *cobra.Command) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return err
	}

	debug = viper.GetBool("debug")
	if debug {
		logLevel.Set(slog.LevelDebug)
	}
	keyFile = viper.GetString("key-file")

	invocationLogger = slog.Default().With(slog.String("op_id", uuid.NewString()), slog.String("cmd", cmd.Name()))
	return nil
}

// loadKey reads and hex-decodes the key file bound to --key-file.
func loadKey() ([]byte, error) {
	return readHexFile(keyFile)
}
