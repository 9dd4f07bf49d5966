package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/on-the-ground/sieve_ive_go/actor"
	"github.com/on-the-ground/sieve_ive_go/config"
	"github.com/on-the-ground/sieve_ive_go/log"
	"github.com/on-the-ground/sieve_ive_go/sieve"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootFlags struct {
	configPath string
	logLevel   string
	window     int
	stats      bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags
	cmd := &cobra.Command{
		Use:   "primeoracle [n...]",
		Short: "Answer primality queries with a memoizing sieve",
		Long: `Answers whether each non-negative integer is prime.

Numbers come from the arguments, or whitespace-separated from stdin when no
arguments are given. Every query shares one oracle, so later queries reuse
what earlier ones learned.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, args)
		},
	}
	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
	cmd.Flags().IntVar(&flags.window, "window", 0, "override actor.window, the ascending reorder window")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "print oracle statistics after the last answer")
	return cmd
}

func run(cmd *cobra.Command, flags rootFlags, args []string) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.window > 0 {
		cfg.Actor.Window = flags.window
	}

	logger, err := log.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	oracle := sieve.New(cfg.OracleOptions(logger)...)
	a := actor.New(ctx, oracle, cfg.Actor.BufferSize, logger)
	defer a.Close()

	in := make(chan int)
	scanned := make(chan scanResult, 1)
	go func() {
		defer close(in)
		scanned <- scanQueries(ctx, cmd.InOrStdin(), args, in)
	}()

	out := cmd.OutOrStdout()
	failed := 0
	for res := range a.Stream(ctx, in, cfg.Actor.Window) {
		if res.Err != nil {
			failed++
			fmt.Fprintf(out, "%d\terror: %v\n", res.N, res.Err)
			continue
		}
		verdict := "composite"
		if res.Prime {
			verdict = "prime"
		}
		fmt.Fprintf(out, "%d\t%s\n", res.N, verdict)
	}

	scan := <-scanned
	for _, bad := range scan.bad {
		failed++
		fmt.Fprintf(out, "%s\terror: %s\n", bad.tok, bad.reason)
	}

	if flags.stats {
		printStats(out, oracle)
	}
	logger.Debug("queries answered", zap.Int("failed", failed))

	if scan.err != nil {
		return scan.err
	}
	if failed > 0 {
		return fmt.Errorf("%d queries failed", failed)
	}
	return nil
}

// maxTokenSize bounds a single stdin token. A longer one stops the scan with
// bufio.ErrTooLong.
const maxTokenSize = 1 << 20

// shownTokenLen is how much of a rejected token is echoed back.
const shownTokenLen = 32

type badToken struct {
	tok    string
	reason string
}

type scanResult struct {
	bad []badToken
	err error
}

// scanQueries sends every integer token to in and collects the tokens that
// were not. A read failure on r ends the scan and is returned in err.
func scanQueries(ctx context.Context, r io.Reader, args []string, in chan<- int) scanResult {
	var res scanResult
	send := func(tok string) bool {
		n, err := strconv.Atoi(tok)
		if err != nil {
			res.bad = append(res.bad, rejectToken(tok, err))
			return true
		}
		select {
		case in <- n:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if len(args) > 0 {
		for _, tok := range args {
			if !send(tok) {
				break
			}
		}
		return res
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxTokenSize)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		if !send(sc.Text()) {
			return res
		}
	}
	if err := sc.Err(); err != nil {
		res.err = fmt.Errorf("failed to read queries: %w", err)
	}
	return res
}

func rejectToken(tok string, err error) badToken {
	reason := "not an integer"
	if errors.Is(err, strconv.ErrRange) {
		reason = "value out of range"
	}
	if len(tok) > shownTokenLen {
		tok = tok[:shownTokenLen] + "..."
	}
	return badToken{tok: tok, reason: reason}
}

func printStats(w io.Writer, o *sieve.Oracle) {
	snap := o.Snapshot()
	st := o.Stats()
	fmt.Fprintf(w, "frontier\t%d\n", snap.Frontier)
	fmt.Fprintf(w, "primes\t%d\n", len(snap.Primes))
	fmt.Fprintf(w, "digest\t%016x\n", snap.Digest)
	fmt.Fprintf(w, "queries\t%d\n", st.Queries)
	fmt.Fprintf(w, "cache_hits\t%d\n", st.CacheHits)
	fmt.Fprintf(w, "trial_divisions\t%d\n", st.TrialDivisions)
	fmt.Fprintf(w, "sieve_steps\t%d\n", st.SieveSteps)
	fmt.Fprintf(w, "eliminations\t%d\n", st.Eliminations)
}
