package tool

import (
	"flag"
	"os"

	"github.com/moyoez/docscan-go/types"
)

// SetFlags parses CLI flags and returns the override config.
func SetFlags() types.Config {
	cfg, _ := ParseFlags(flag.CommandLine, os.Args[1:]) // CommandLine exits on error
	return cfg
}

// ParseFlags registers every flag on fs and parses args.
func ParseFlags(fs *flag.FlagSet, args []string) (types.Config, error) {
	var cfg types.Config
	fs.StringVar(&cfg.Log, "log", "", "log mode: dev|prod|none")
	fs.StringVar(&cfg.UseConfigPath, "useConfigPath", "", "override config file path")
	fs.StringVar(&cfg.UseReferNetworkInterface, "useReferNetworkInterface", "*", "specify network interface (e.g., 'wlan0', 'en0') or '*' to pick automatically")
	fs.BoolVar(&cfg.UseAllowWired, "useAllowWired", false, "also run discovery on wired (ethernet) connections")
	fs.StringVar(&cfg.UseShareFolder, "useShareFolder", "", "folder that the share action exports images to")
	fs.IntVar(&cfg.UseApiPort, "useApiPort", 0, "override control API port")
	fs.BoolVar(&cfg.SkipNotify, "skipNotify", false, "if true, do not send unix socket notifications")

	fs.BoolVar(&cfg.Discover, "discover", false, "guess and probe the companion server on the local network, then exit")
	fs.StringVar(&cfg.Send, "send", "", "upload the given image to the active endpoint, then exit")
	fs.StringVar(&cfg.Share, "share", "", "export the given image to the share folder, then exit")
	fs.StringVar(&cfg.Test, "test", "", "test the connection to host:port, then exit")
	fs.StringVar(&cfg.Save, "save", "", "save host:port as the server endpoint, then exit")
	fs.BoolVar(&cfg.Status, "status", false, "print the companion server status, then exit")
	if err := fs.Parse(args); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}
