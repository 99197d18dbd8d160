package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"docscope/internal/artifact"
	"docscope/internal/config"
	"docscope/internal/domain"
	"docscope/internal/repository"
	"docscope/internal/repository/mongodb"
	"docscope/internal/repository/postgres"
	"docscope/internal/repository/sqlite"
	"docscope/internal/service"
	"docscope/internal/tunnel"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "config file path (default: search standard locations)")
	driver := flag.String("driver", "", "database driver: sqlite, postgres or mongodb")
	uri := flag.String("uri", "", "database connection URI or SQLite file path")
	dbName := flag.String("db", "", "database name (mongodb)")
	out := flag.String("out", "", "output file path or s3://bucket/key (default: stdout)")
	format := flag.String("format", "", "output format: json or yaml")
	collectionSample := flag.Int("collection-sample", 0, "documents sampled per collection")
	referenceSample := flag.Int("reference-sample", -1, "values kept per reference candidate")
	maxProperties := flag.Int("max-properties", 0, "objects with more properties become Mixed")
	timeout := flag.Duration("timeout", 0, "abort the run after this long (0 = no limit)")
	seedDir := flag.String("seed", "", "import <collection>.json files from this directory before introspecting (sqlite only)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(os.Stderr)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags win over config and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			cfg.Database.Driver = *driver
		case "uri":
			cfg.Database.URI = *uri
		case "db":
			cfg.Database.Name = *dbName
		case "out":
			cfg.Output.Path = *out
		case "format":
			cfg.Output.Format = *format
		case "collection-sample":
			cfg.Introspection.CollectionSampleSize = collectionSample
		case "reference-sample":
			cfg.Introspection.ReferenceSampleSize = referenceSample
		case "max-properties":
			cfg.Introspection.MaxPropertiesPerObject = maxProperties
		case "timeout":
			d := config.Duration(*timeout)
			cfg.Introspection.Timeout = &d
		}
	})
	if cfg.Output.Path != "" && !isFlagSet("format") {
		cfg.Output.Format = service.FormatForKey(cfg.Output.Path, "")
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	log.Printf("%s", cfg.Summary())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if d := cfg.Timeout(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	if err := run(ctx, cfg, *seedDir); err != nil {
		log.Fatalf("Introspection failed: %v", err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg, found, err := config.Load()
		if err == nil && found != "" {
			log.Printf("Config loaded: %s", found)
		}
		return cfg, err
	}
	cfg, _, err := config.LoadFromPath(path)
	return cfg, err
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func run(ctx context.Context, cfg *config.Config, seedDir string) error {
	var dialer *tunnel.Dialer
	if tc, ok := cfg.TunnelConfig(); ok {
		d, err := tunnel.Open(ctx, tc)
		if err != nil {
			return fmt.Errorf("open tunnel: %w", err)
		}
		defer d.Close()
		dialer = d
	}

	store, err := openStore(ctx, cfg.Database, dialer)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Printf("Database opened: %s", cfg.Database.Driver)

	if seedDir != "" {
		if err := seed(ctx, store, seedDir); err != nil {
			return err
		}
	}

	// Log run progress from the event bus
	eventBus := service.NewEventBus()
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range eventChan {
			logEvent(event)
		}
	}()
	defer func() {
		eventBus.Unsubscribe(eventChan)
		close(eventChan)
		<-done
	}()

	svc := service.NewIntrospectionService(store, eventBus)

	start := time.Now()
	result, err := svc.Run(ctx, cfg.Options())
	if err != nil {
		return err
	}
	log.Printf("Introspected %d models in %s", len(result.Models), time.Since(start).Round(time.Millisecond))

	if cfg.Output.Path == "" {
		return svc.Export(result, cfg.Output.Format, os.Stdout)
	}

	loc, err := artifact.ParseLocation(cfg.Output.Path)
	if err != nil {
		return err
	}
	dst, err := artifact.Open(loc, cfg.S3)
	if err != nil {
		return err
	}
	return svc.Save(ctx, dst, loc.Key, cfg.Output.Format, result)
}

// openStore connects to the configured database, through the tunnel when
// one is open
func openStore(ctx context.Context, db config.DatabaseConfig, dialer *tunnel.Dialer) (repository.Store, error) {
	switch db.Driver {
	case config.DriverSQLite:
		if dialer != nil {
			return nil, fmt.Errorf("the %s driver cannot use a tunnel", db.Driver)
		}
		return sqlite.New(db.URI)
	case config.DriverPostgres:
		var dial postgres.DialFunc
		if dialer != nil {
			dial = dialer.DialContext
		}
		return postgres.New(ctx, db.URI, dial)
	case config.DriverMongoDB:
		if dialer != nil {
			return mongodb.New(ctx, db.URI, db.Name, dialer)
		}
		return mongodb.New(ctx, db.URI, db.Name, nil)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", db.Driver)
	}
}

// seeder is implemented by stores that accept documents
type seeder interface {
	ImportDocuments(ctx context.Context, collection string, docs []domain.Document) error
}

// seed imports every <collection>.json file in dir. Each file holds a JSON
// array of documents.
func seed(ctx context.Context, store repository.Store, dir string) error {
	s, ok := store.(seeder)
	if !ok {
		return fmt.Errorf("this driver does not support -seed")
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return fmt.Errorf("list seed files: %w", err)
	}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		docs, err := repository.DecodeDocuments(data)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		collection := strings.TrimSuffix(filepath.Base(file), ".json")
		if err := s.ImportDocuments(ctx, collection, docs); err != nil {
			return err
		}
		log.Printf("Seeded %d documents into %s", len(docs), collection)
	}
	return nil
}

func logEvent(event service.Event) {
	switch event.Type {
	case service.EventIntrospectionStarted:
		log.Printf("Sampling %v collections", event.Payload["collections"])
	case service.EventCollectionSampled:
		log.Printf("Sampled %v documents from %v", event.Payload["documents"], event.Payload["collection"])
	case service.EventCandidatesFound:
		log.Printf("Found %v reference candidates", event.Payload["candidates"])
	case service.EventReferencesVerified:
		log.Printf("Verified %v references", event.Payload["references"])
	case service.EventResultSaved:
		log.Printf("Saved %v bytes to %v", event.Payload["bytes"], event.Payload["key"])
	case service.EventIntrospectionFailed:
		log.Printf("Run failed: %v", event.Payload["error"])
	}
}
