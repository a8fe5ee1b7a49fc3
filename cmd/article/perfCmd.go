package article

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/aKV/cmd/util"
	libarticle "github.com/ValentinKolb/aKV/lib/article"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for aKV servers",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfTitlePrefix = "__test"
	perfNumThreads  = 10
	perfNumOps      = 1000
	perfBodySizeKB  = 1
	perfSkip        = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. create,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("Number of operations per benchmark"))
	key = "body-size"
	perfTestCmd.Flags().Int(key, 1, util.WrapString("How large the article body for the create-large test should be (in KB)"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = viper.GetInt("threads")
	perfNumOps = viper.GetInt("ops")
	perfBodySizeKB = viper.GetInt("body-size")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for aKV servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Ops per test: %d\n", perfNumOps)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]metrics.Histogram)

	createHist, createSlugs := benchCreate("create", strings.Repeat("x", 256))
	results["create"] = createHist
	printPerfResult("create", createHist)

	largeHist, largeSlugs := benchCreate("create-large", strings.Repeat("x", perfBodySizeKB*1024))
	results["create-large"] = largeHist
	printPerfResult("create-large", largeHist)

	getHist := runBench("get", func(i int) error {
		_, err := rpcStore.GetBySlug(perfSlug(createSlugs, i))
		return err
	})
	results["get"] = getHist
	printPerfResult("get", getHist)

	listHist := runBench("list", func(i int) error {
		_, err := rpcStore.List(1, 20)
		return err
	})
	results["list"] = listHist
	printPerfResult("list", listHist)

	updateHist := runBench("update", func(i int) error {
		title := fmt.Sprintf("%s-updated-%d", perfTitlePrefix, i)
		_, err := rpcStore.Update(perfSlug(createSlugs, i), &libarticle.UpdateArticle{Title: &title})
		return err
	})
	results["update"] = updateHist
	printPerfResult("update", updateHist)

	favoriteHist := runBench("favorite", func(i int) error {
		_, err := rpcStore.Favorite(perfSlug(createSlugs, i), i%2 == 0)
		return err
	})
	results["favorite"] = favoriteHist
	printPerfResult("favorite", favoriteHist)

	mixedHist := runBench("mixed", func(i int) error {
		switch i % 4 {
		case 0:
			_, err := rpcStore.GetBySlug(perfSlug(createSlugs, i))
			return err
		case 1:
			_, err := rpcStore.List(1, 20)
			return err
		case 2:
			title := fmt.Sprintf("%s-mixed-%d", perfTitlePrefix, i)
			_, err := rpcStore.Update(perfSlug(createSlugs, i), &libarticle.UpdateArticle{Title: &title})
			return err
		default:
			_, err := rpcStore.Favorite(perfSlug(createSlugs, i), true)
			return err
		}
	})
	results["mixed"] = mixedHist
	printPerfResult("mixed", mixedHist)

	// cleanup all articles created during the run
	deleteHist := runBenchN("delete", len(createSlugs)+len(largeSlugs), func(i int) error {
		if i < len(createSlugs) {
			return rpcStore.Delete(createSlugs[i])
		}
		return rpcStore.Delete(largeSlugs[i-len(createSlugs)])
	})
	results["delete"] = deleteHist
	printPerfResult("delete", deleteHist)

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writePerfResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// perfSlug picks a slug by index (with wraparound)
func perfSlug(slugs []string, i int) string {
	if len(slugs) == 0 {
		return ""
	}
	return slugs[i%len(slugs)]
}

func newPerfHistogram() metrics.Histogram {
	return metrics.NewHistogram(metrics.NewUniformSample(perfNumOps))
}

// runBench spreads perfNumOps calls of fn over perfNumThreads goroutines
// and records the latency of each call
func runBench(test string, fn func(i int) error) metrics.Histogram {
	return runBenchN(test, perfNumOps, fn)
}

func runBenchN(test string, ops int, fn func(i int) error) metrics.Histogram {
	hist := newPerfHistogram()
	if shouldSkip(test) || ops == 0 {
		return hist
	}

	var wg sync.WaitGroup
	var next sync.Mutex
	counter := 0

	for t := 0; t < perfNumThreads; t++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				next.Lock()
				i := counter
				counter++
				next.Unlock()
				if i >= ops {
					return
				}

				start := time.Now()
				err := fn(i)
				hist.Update(time.Since(start).Nanoseconds())

				if err != nil {
					log.Printf("(%s) - error performing operation: %v\n", test, err)
				}
			}
		}()
	}
	wg.Wait()

	return hist
}

// benchCreate creates articles and returns the benchmark result together
// with the created slugs so later tests (and cleanup) can reuse them
func benchCreate(test, body string) (metrics.Histogram, []string) {
	hist := newPerfHistogram()
	if shouldSkip(test) {
		return hist, nil
	}

	var mu sync.Mutex
	slugs := make([]string, 0, perfNumOps)

	hist = runBench(test, func(i int) error {
		a, err := rpcStore.Create(&libarticle.NewArticle{
			Title:       fmt.Sprintf("%s-%s-%d", perfTitlePrefix, test, i),
			Description: "benchmark article",
			Body:        body,
			Author: libarticle.Author{
				Name:  "perf",
				Email: "perf@example.com",
			},
		})
		if err != nil {
			return err
		}

		mu.Lock()
		slugs = append(slugs, a.Slug)
		mu.Unlock()
		return nil
	})

	return hist, slugs
}

// printPerfResult prints the latency distribution of a benchmark test
func printPerfResult(test string, hist metrics.Histogram) {
	if hist.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	mean := hist.Mean()
	opsPerSec := float64(perfNumThreads) / (mean / 1e9)
	ps := hist.Percentiles([]float64{0.5, 0.95, 0.99})

	fmt.Printf("%-20smean %-12s p50 %-12s p95 %-12s p99 %-12s %.0f ops/sec\n",
		test,
		time.Duration(mean),
		time.Duration(ps[0]),
		time.Duration(ps[1]),
		time.Duration(ps[2]),
		opsPerSec,
	)
}

// writePerfResultsToCSV writes benchmark results to a CSV file
func writePerfResultsToCSV(csvPath string, results map[string]metrics.Histogram) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	config := util.GetClientConfig()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P50Ns", "P95Ns", "P99Ns", "MaxNs", "Skipped",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"ShardID", "Serializer", "Transport",
		"Threads", "Ops", "BodySizeKB",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, hist := range results {
		ps := hist.Percentiles([]float64{0.5, 0.95, 0.99})

		row := []string{
			test,
			strconv.FormatInt(hist.Count(), 10),
			fmt.Sprintf("%.0f", hist.Mean()),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			fmt.Sprintf("%.0f", ps[2]),
			strconv.FormatInt(hist.Max(), 10),
			strconv.FormatBool(hist.Count() == 0),
			strings.Join(config.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			strconv.Itoa(config.ConnectionsPerEndpoint),
			strconv.FormatUint(util.GetShardID(), 10),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfNumOps),
			strconv.Itoa(perfBodySizeKB),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
