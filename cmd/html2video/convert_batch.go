package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	html2video "github.com/alnah/go-html2video"
)

// File permission constants.
const (
	dirPermissions = 0o750 // rwxr-x---: owner full, group read+execute
)

// Sentinel errors for batch operations.
var (
	ErrCreateOutputDir = errors.New("failed to create output directory")
	ErrServiceInit     = errors.New("failed to initialize conversion service")
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, req html2video.Request) (*html2video.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*html2video.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() CLIConverter
	Release(CLIConverter)
	Size() int
}

// conversionParams groups the request fields shared by every job of a batch.
type conversionParams struct {
	format    string
	width     int
	height    int
	fps       int
	duration  time.Duration
	selector  string
	variables map[string]string
	audioPath string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath   string
	OutputPath  string
	AudioMerged bool
	Err         error
	Duration    time.Duration
}

// batchError reports failed conversions and unwraps to the first failure
// so the exit code reflects its cause.
type batchError struct {
	failed int
	first  error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d conversion(s) failed", e.failed)
}

func (e *batchError) Unwrap() error {
	return e.first
}

// convertBatch processes jobs concurrently using the converter pool.
// Results are returned in job order.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			if svc == nil {
				// Converter creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].Label(),
						Err:       ErrServiceInit,
					}
				}
				return
			}
			defer pool.Release(svc)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].Label(),
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, svc, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single job and returns the result.
func convertFile(ctx context.Context, service CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.Label(),
		OutputPath: f.OutputPath,
	}

	if outDir := filepath.Dir(f.OutputPath); outDir != "." {
		if err := os.MkdirAll(outDir, dirPermissions); err != nil {
			result.Err = fmt.Errorf("%w: %w", ErrCreateOutputDir, err)
			result.Duration = time.Since(start)
			return result
		}
	}

	res, err := service.Convert(ctx, buildRequest(f, params))
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = err
		return result
	}

	result.OutputPath = res.Path
	result.AudioMerged = res.AudioMerged
	return result
}

// buildRequest maps one job onto a library request.
func buildRequest(f FileToConvert, params *conversionParams) html2video.Request {
	return html2video.Request{
		Source:    html2video.Source{Path: f.InputPath, HTML: f.HTML},
		Format:    params.format,
		Output:    f.OutputPath,
		Width:     params.width,
		Height:    params.height,
		FPS:       params.fps,
		Duration:  params.duration,
		Selector:  params.selector,
		Variables: params.variables,
		AudioPath: params.audioPath,
	}
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// firstError returns the first failure in job order.
func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// printResultsWithWriter outputs conversion results using the provided writers.
// Failures carry an actionable hint when one applies.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, format string, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, hintFor(r.Err, format))
			continue
		}

		if quiet || verbose {
			continue
		}

		fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
	}

	if quiet {
		return summary.Failed
	}

	if verbose {
		fmt.Fprintln(env.Stdout, resultsTable(results))
	}

	if len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}

// resultsTable renders one row per conversion with its timing.
func resultsTable(results []ConversionResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		status, output := "ok", r.OutputPath
		if r.Err != nil {
			status, output = "failed", ""
		}
		audio := ""
		if r.AudioMerged {
			audio = "merged"
		}
		rows = append(rows, []string{
			r.InputPath,
			output,
			audio,
			status,
			r.Duration.Round(time.Millisecond).String(),
		})
	}
	return renderTable(
		[]string{"Input", "Output", "Audio", "Status", "Time"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}
