package main

import (
	"context"
	"fmt"
	netHttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/NOVAZHOU2/GithubAnalyzer/internal/adapter/classify"
	"github.com/NOVAZHOU2/GithubAnalyzer/internal/adapter/github"
	"github.com/NOVAZHOU2/GithubAnalyzer/internal/app"
	"github.com/NOVAZHOU2/GithubAnalyzer/internal/database"
	"github.com/NOVAZHOU2/GithubAnalyzer/internal/limiter"
	"github.com/NOVAZHOU2/GithubAnalyzer/internal/report"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	l := logrus.New()
	l.Level = logrus.InfoLevel

	var conf Config
	if err := envconfig.Process("", &conf); err != nil {
		l.Fatalf("couldn't parse config: %v", err)
	}

	root := &cobra.Command{
		Use:           "githubanalyzer",
		Short:         "Analyze commit histories of popular GitHub repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCommand(conf, l))
	root.AddCommand(classifyCommand(conf, l))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	// An interrupt cancels the run; partial reports are still written.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		l.Errorf("%v", err)
		os.Exit(1)
	}
}

func runCommand(conf Config, l *logrus.Logger) *cobra.Command {
	var (
		language string
		minStars int
		projects int
		commits  int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Search popular repositories and report their commit histories",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, cleanup, err := buildService(conf, output, l)
			if err != nil {
				return err
			}
			defer cleanup()

			summary, err := service.Run(cmd.Context(), app.Criteria{
				Language:          language,
				MinStars:          minStars,
				MaxProjects:       projects,
				CommitsPerProject: commits,
			})
			if err != nil {
				return err
			}

			report.WriteSummary(os.Stdout, summary)
			fmt.Fprintf(os.Stdout, "report files written to %s/\n", output)

			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "C", "repository language to search for")
	cmd.Flags().IntVar(&minStars, "stars", 1000, "minimum star count")
	cmd.Flags().IntVar(&projects, "projects", 5, "maximum number of repositories")
	cmd.Flags().IntVar(&commits, "commits", 20, "commits fetched per repository")
	cmd.Flags().StringVar(&output, "output", "results", "output directory for report files")

	return cmd
}

func classifyCommand(conf Config, l *logrus.Logger) *cobra.Command {
	var (
		input   string
		output  string
		column  string
		maxRows int
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Annotate a commits CSV with bug classifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if conf.ClassifyAPIKey == "" {
				return fmt.Errorf("CLASSIFYAPIKEY must be set to use classification")
			}

			httpClient := &netHttp.Client{Timeout: conf.HTTPTimeout}
			client := classify.NewClient(
				httpClient,
				conf.ClassifyAPIAddress,
				conf.ClassifyAPIKey,
				conf.ClassifyModel,
				l.WithField("component", "classifyClient"),
			)
			cachedClient, err := classify.NewCachedClassifier(client, conf.ClassifyCacheSize)
			if err != nil {
				return fmt.Errorf("creating classifier cache: %w", err)
			}

			service := app.NewClassifyService(
				cachedClient,
				conf.ClassifyDelay,
				l.WithField("component", "classifyService"),
			)

			stats, err := service.Run(cmd.Context(), input, output, column, maxRows)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "classified %d commits, %d bug fixes (%.2f%%)\n",
				stats.Total, stats.BugFixes, stats.BugFixRate())

			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "commits.csv", "input commits CSV")
	cmd.Flags().StringVar(&output, "output", "commits_analyzed.csv", "output CSV with classification columns")
	cmd.Flags().StringVar(&column, "column", "message", "name of the commit message column")
	cmd.Flags().IntVar(&maxRows, "max", 10, "maximum rows to classify, 0 means all")

	return cmd
}

func buildService(conf Config, output string, l *logrus.Logger) (*app.Service, func(), error) {
	httpClient := &netHttp.Client{
		Timeout: conf.HTTPTimeout,
	}

	var doer github.HTTPDoer = limiter.NewHTTPDoer(httpClient, conf.GithubAPIRateLimit)
	cleanup := func() {}

	if conf.CachePath != "" {
		kvStore, err := database.NewBoltKVStore(conf.CachePath, conf.CacheBucketName)
		if err != nil {
			return nil, nil, fmt.Errorf("creating bolt kv store: %w", err)
		}
		cleanup = func() { _ = kvStore.Close() }
		doer = github.NewCachingDoer(
			doer,
			kvStore,
			conf.CacheTTL,
			l.WithField("component", "responseCache"),
		)
	}

	limits := github.NewRateLimit(l.WithField("component", "rateLimit"))
	githubClient := github.NewClient(
		doer,
		conf.GithubAPIAddress,
		conf.GithubAPIToken,
		conf.GithubAPIUserAgent,
		limits,
		l.WithField("component", "githubClient"),
	)

	renderer := report.NewRenderer(output, l.WithField("component", "renderer"))
	service := app.NewService(githubClient, renderer, l.WithField("component", "service"))

	return service, cleanup, nil
}
