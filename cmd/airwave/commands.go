package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/FranksOps/airwave/internal/mirror"
	"github.com/FranksOps/airwave/internal/profile"
	"github.com/FranksOps/airwave/internal/report"
	"github.com/FranksOps/airwave/internal/server"
	"github.com/spf13/cobra"
)

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the station search API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			searcher, pool, err := buildSearcher(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			srv, err := server.New(server.Config{
				Searcher: searcher,
				Catalog:  searcher.Catalog(),
				Mirrors:  pool,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx, a.cfg.Listen)
		},
	}

	cmd.Flags().String("listen", "", "address to listen on (default :8080)")
	if err := a.v.BindPFlag("listen", cmd.Flags().Lookup("listen")); err != nil {
		panic(err)
	}
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var (
		params profile.Params
		limit  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "search [profile]",
		Short: "Search mirrors once and print the stations found",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				params.ProfileID = args[0]
			}
			params.Limit = profile.ParseLimit(limit)

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			searcher, _, err := buildSearcher(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			res := searcher.Search(ctx, params)
			return report.Write(cmd.OutOrStdout(), f, res)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&params.ProfileID, "profile", "p", "", "profile to search (default agency)")
	fl.StringVarP(&params.Tag, "tag", "t", "", "search only this tag")
	fl.StringVarP(&params.Country, "country", "c", "", "search only this ISO country code")
	fl.StringVarP(&limit, "limit", "n", "", fmt.Sprintf("number of stations, %d to %d (default %d)", profile.MinLimit, profile.MaxLimit, profile.DefaultLimit))
	fl.StringVarP(&format, "format", "o", "text", "output format: text, json, csv or html")
	return cmd
}

func newProfilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the available search profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog(a.cfg)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLABEL\tTAGS\tCOUNTRIES\tCODECS\tMIN KBPS")
			for _, p := range cat.List() {
				id := p.ID
				if id == cat.DefaultID() {
					id += "*"
				}
				countries := make([]string, len(p.Countries))
				for i, c := range p.Countries {
					if c == "" {
						c = "any"
					}
					countries[i] = c
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", id, p.Label,
					strings.Join(p.Tags, ","), strings.Join(countries, ","), strings.Join(p.Codecs, ","), p.BitrateMin)
			}
			return tw.Flush()
		},
	}
}

func newMirrorsCmd(a *app) *cobra.Command {
	var discover bool

	cmd := &cobra.Command{
		Use:   "mirrors",
		Short: "Check which mirrors are reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			client, err := directoryClient(a.cfg)
			if err != nil {
				return err
			}

			urls := a.cfg.Mirrors
			if discover || a.cfg.MirrorDiscovery {
				if urls, err = mirror.Discover(ctx, client, a.cfg.DiscoveryURL); err != nil {
					return err
				}
			}

			normalized := make([]string, 0, len(urls))
			for _, u := range urls {
				n, err := mirror.Normalize(u)
				if err != nil {
					return err
				}
				normalized = append(normalized, n)
			}
			return report.WriteMirrors(cmd.OutOrStdout(), mirror.Probe(ctx, client, normalized))
		},
	}

	cmd.Flags().BoolVar(&discover, "discover", false, "probe every mirror the directory lists")
	return cmd
}
