package config

import (
	"flag"
	"os"
	"time"
)

// parseFlags parses all configuration flags into a StructuredConfig.
//
// Flags:
//
//	-a address the kvd daemon listens on, [host]:[port]
//	-d kvd storage DSN (postgres:// URI or sqlite file path)
//	-kv-url base URL of the hosted key-value store
//	-kv-token bearer token for the hosted store
//	-kv-timeout per-command timeout (e.g. "15s")
//	-fetch-strategy BulkRead strategy: sequential or parallel
//	-fetch-workers parallel strategy fan-out bound
//	-session-file local session blob path
//	-session-timeout inactivity window (e.g. "30m")
//	-check-interval watchdog tick interval (e.g. "1m")
//	-token-sign-key session token signing key
//	-token-issuer session token issuer name
//	-hash-key integrity hash key
//	-request-timeout kvd inbound request timeout
//	-c/-config json file path with configs
//
// A dedicated FlagSet is used so that tests may call parseFlags repeatedly.
func parseFlags() *StructuredConfig {
	return parseFlagsFromArgs(os.Args[1:])
}

func parseFlagsFromArgs(args []string) *StructuredConfig {
	fs := flag.NewFlagSet("salon-desk", flag.ContinueOnError)

	var (
		serverAddress   string
		storageDSN      string
		kvURL           string
		kvToken         string
		kvTimeout       time.Duration
		fetchStrategy   string
		fetchWorkers    int
		sessionFile     string
		sessionTimeout  time.Duration
		checkInterval   time.Duration
		tokenSignKey    string
		tokenIssuer     string
		hashKey         string
		requestTimeout  time.Duration
		jsonConfigPath  string
	)

	fs.StringVar(&serverAddress, "a", "", "kvd listen address host:port")
	fs.StringVar(&storageDSN, "d", "", "kvd storage DSN")
	fs.StringVar(&kvURL, "kv-url", "", "Hosted KV store base URL")
	fs.StringVar(&kvToken, "kv-token", "", "Hosted KV store bearer token")
	fs.DurationVar(&kvTimeout, "kv-timeout", 0, "KV command timeout (e.g. 15s)")
	fs.StringVar(&fetchStrategy, "fetch-strategy", "", "BulkRead strategy: sequential|parallel")
	fs.IntVar(&fetchWorkers, "fetch-workers", 0, "Parallel BulkRead worker bound")
	fs.StringVar(&sessionFile, "session-file", "", "Local session file path")
	fs.DurationVar(&sessionTimeout, "session-timeout", 0, "Session inactivity window (e.g. 30m)")
	fs.DurationVar(&checkInterval, "check-interval", 0, "Watchdog tick interval (e.g. 1m)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Session token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Session token issuer")
	fs.StringVar(&hashKey, "hash-key", "", "Integrity hash key")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "kvd request timeout (e.g. 30s)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	_ = fs.Parse(args)

	return &StructuredConfig{
		App: App{
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
			HashKey:      hashKey,
		},
		KVStore: KVStore{
			BaseURL:       kvURL,
			Token:         kvToken,
			Timeout:       kvTimeout,
			FetchStrategy: fetchStrategy,
			FetchWorkers:  fetchWorkers,
		},
		Session: Session{
			Timeout:       sessionTimeout,
			CheckInterval: checkInterval,
			FilePath:      sessionFile,
		},
		Server: Server{
			Address:        serverAddress,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DSN: storageDSN,
		},
		JSONFilePath: jsonConfigPath,
	}
}
