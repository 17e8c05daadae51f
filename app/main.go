package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/storus/lib/storus"
)

type options struct {
	URL             string        `short:"u" long:"url" env:"STORUS_URL" description:"stoo endpoint, https enables TLS"`
	Config          string        `short:"c" long:"config" env:"STORUS_CONFIG" description:"yaml config file"`
	Namespace       string        `short:"n" long:"namespace" env:"STORUS_NAMESPACE" description:"namespace"`
	Profile         string        `short:"p" long:"profile" env:"STORUS_PROFILE" description:"profile"`
	CACert          string        `long:"ca" env:"STORUS_CA" description:"PEM encoded CA certificate for TLS"`
	Domain          string        `long:"domain" env:"STORUS_DOMAIN" description:"expected TLS server name"`
	ConnectTimeout  time.Duration `long:"connect-timeout" env:"STORUS_CONNECT_TIMEOUT" description:"connect timeout (default 10s)"`
	ResponseTimeout time.Duration `long:"response-timeout" env:"STORUS_RESPONSE_TIMEOUT" description:"response timeout (default 30s)"`
	Format          string        `short:"f" long:"format" env:"STORUS_FORMAT" choice:"text" choice:"json" choice:"yaml" choice:"toml" choice:"ini" default:"text" description:"output format for list"` //nolint:lll
	Dbg             bool          `long:"dbg" env:"DEBUG" description:"debug mode"`

	Get struct {
		Args struct {
			Key string `positional-arg-name:"KEY" required:"yes"`
		} `positional-args:"yes" required:"yes"`
	} `command:"get" description:"print value of a key"`

	Set struct {
		Args keyValueArgs `positional-args:"yes" required:"yes"`
	} `command:"set" description:"store value of a key"`

	SetSecret struct {
		Args keyValueArgs `positional-args:"yes" required:"yes"`
	} `command:"set-secret" description:"store secret value of a key"`

	Delete struct {
		Args struct {
			Key string `positional-arg-name:"KEY" required:"yes"`
		} `positional-args:"yes" required:"yes"`
	} `command:"delete" description:"delete a key"`

	List struct{} `command:"list" description:"print all keys and values of namespace and profile"`
}

type keyValueArgs struct {
	Key   string `positional-arg-name:"KEY" required:"yes"`
	Value string `positional-arg-name:"VALUE" required:"yes"`
}

var revision = "unknown"

func main() {
	opts, command, err := parseOptions(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	setupLog(opts.Dbg)
	log.Printf("[DEBUG] storus %s", revision)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, command, opts, os.Stdout); err != nil {
		log.Printf("[ERROR] %s failed, %v", command, err)
		os.Exit(1)
	}
}

// parseOptions parses command line and environment, returns options and the active command name.
func parseOptions(args []string) (options, string, error) {
	var opts options
	p := flags.NewParser(&opts, flags.Default)
	if _, err := p.ParseArgs(args); err != nil {
		return options{}, "", err
	}
	if p.Active == nil {
		return options{}, "", errors.New("command is required")
	}
	return opts, p.Active.Name, nil
}

// run connects to stoo and executes command, writing results to out.
// Commands work in the namespace and profile from options or config file.
func run(ctx context.Context, command string, opts options, out io.Writer) error {
	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}
	fmtType, err := parseFormat(opts.Format)
	if err != nil {
		return err
	}

	client, err := storus.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	defer client.Close()

	var res string
	switch command {
	case "get":
		res, err = client.GetDefault(ctx, opts.Get.Args.Key)
	case "set":
		res, err = client.SetDefault(ctx, opts.Set.Args.Key, opts.Set.Args.Value)
	case "set-secret":
		res, err = client.SetSecretDefault(ctx, opts.SetSecret.Args.Key, opts.SetSecret.Args.Value)
	case "delete":
		res, err = client.DeleteDefault(ctx, opts.Delete.Args.Key)
	case "list":
		all, listErr := client.GetAllByDefaultNamespaceAndProfile(ctx)
		if listErr != nil {
			return listErr
		}
		return writeMap(out, fmtType, all)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, res)
	return err
}

func setupLog(dbg bool) {
	logOpts := []log.Option{log.Msec, log.LevelBraces, log.StackTraceOnError, log.Out(os.Stderr)}
	if dbg {
		logOpts = []log.Option{log.Debug, log.CallerFile, log.CallerFunc, log.Msec, log.LevelBraces,
			log.StackTraceOnError, log.Out(os.Stderr)}
	}
	log.SetupStdLogger(logOpts...)
	log.Setup(logOpts...)
}
