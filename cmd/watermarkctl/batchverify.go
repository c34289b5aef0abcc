package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/pixelclaim/watermark"
	"github.com/pixelclaim/watermark/internal/imageio"
)

// imageResult is one directory entry's verification outcome, plus the
// source_url metadata sidecar a scraper may have paired the image with.
type imageResult struct {
	Path      string
	SourceURL string
	Verdict   watermark.Verdict
	Err       error
}

// batchSummary holds the counters reported at the end of a run (total /
// hash-matches / phash-matches / unverified).
type batchSummary struct {
	Total        int
	HashMatches  int
	PhashMatches int
	Unverified   int
}

func newBatchVerifyCmd(flags *rootFlags) *cobra.Command {
	var registryURL string
	var numWorkers int

	cmd := &cobra.Command{
		Use:   "batch-verify <directory>",
		Short: "Verify every image in a directory against the asset registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			paths, err := collectImagePaths(dir)
			if err != nil {
				return err
			}

			params := flags.params()
			reg := newHTTPRegistry(registryURL)
			if numWorkers <= 0 {
				numWorkers = runtime.GOMAXPROCS(0)
			}

			results, summary := runBatchVerify(cmd.Context(), reg, paths, params, numWorkers)

			for _, r := range results {
				if r.Err != nil {
					fmt.Printf("%s: error: %v\n", r.Path, r.Err)
					continue
				}
				printVerdict(r.Path, r.Verdict)
				if r.SourceURL != "" {
					fmt.Printf("  source_url=%s\n", r.SourceURL)
				}
			}
			fmt.Printf("\ntotal=%d hash=%d phash=%d unverified=%d\n",
				summary.Total, summary.HashMatches, summary.PhashMatches, summary.Unverified)
			return nil
		},
	}

	cmd.Flags().StringVar(&registryURL, "registry", "", "base URL of the asset registry")
	cmd.Flags().IntVar(&numWorkers, "workers", 0, "worker pool size (defaults to GOMAXPROCS)")
	cmd.MarkFlagRequired("registry")
	return cmd
}

// collectImagePaths walks dir for files with a supported image extension,
// sorted so batch output is stable regardless of filesystem directory order.
func collectImagePaths(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, fmtErr := imageio.DetectFormat(filepath.Ext(path)); fmtErr == nil {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// readSourceURL reads the optional "<image-basename>_metadata.json" sidecar's
// "source_url" field, returning "" if no sidecar exists.
func readSourceURL(imagePath string) string {
	sidecar := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + "_metadata.json"
	data, err := os.ReadFile(sidecar)
	if err != nil {
		return ""
	}
	var meta struct {
		SourceURL string `json:"source_url"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return ""
	}
	return meta.SourceURL
}

// runBatchVerify verifies every path in paths with a bounded worker pool,
// one task per image, each with its own registry-lookup timeout. Results
// are written into a pre-sized slice by index rather than appended, so
// output order matches input order regardless of completion order.
func runBatchVerify(ctx context.Context, reg watermark.Registry, paths []string, params watermark.Params, numWorkers int) ([]imageResult, batchSummary) {
	results := make([]imageResult, len(paths))

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("verifying"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = verifyPath(ctx, reg, paths[idx], params)
				bar.Add(1)
			}
		}()
	}
	for idx := range paths {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	summary := batchSummary{Total: len(results)}
	for _, r := range results {
		switch {
		case r.Err != nil:
			summary.Unverified++
		case r.Verdict.Match == watermark.MatchHash:
			summary.HashMatches++
		case r.Verdict.Match == watermark.MatchPhash:
			summary.PhashMatches++
		default:
			summary.Unverified++
		}
	}
	return results, summary
}

func verifyPath(ctx context.Context, reg watermark.Registry, path string, params watermark.Params) imageResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return imageResult{Path: path, SourceURL: readSourceURL(path), Err: err}
	}
	verdict := watermark.VerifyOne(ctx, reg, data, params)
	return imageResult{Path: path, SourceURL: readSourceURL(path), Verdict: verdict}
}
