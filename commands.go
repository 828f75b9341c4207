package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hdsemg-data/motorunit.report/internal/analysisdb"
	"github.com/hdsemg-data/motorunit.report/internal/charts"
	"github.com/hdsemg-data/motorunit.report/internal/config"
	"github.com/hdsemg-data/motorunit.report/internal/covisi"
	"github.com/hdsemg-data/motorunit.report/internal/emg"
	"github.com/hdsemg-data/motorunit.report/internal/report"
)

// analysisFlags is the subset of flags that can also come from a config
// file. Values the user set on the command line win over the file.
type analysisFlags struct {
	threshold *float64
	firings   *int
	start     *float64
	end       *float64
	dbPath    *string
	outDir    *string
}

// applyConfigFile overlays config-file values on any flag the user did not
// set explicitly.
func applyConfigFile(fs *flag.FlagSet, path string, dst analysisFlags) error {
	if path == "" {
		return nil
	}
	cfg, err := config.LoadAnalysisConfig(path)
	if err != nil {
		return err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if dst.threshold != nil && cfg.CoVISIThreshold != nil && !set["threshold"] {
		*dst.threshold = cfg.GetCoVISIThreshold()
	}
	if dst.firings != nil && cfg.RecDerecFirings != nil && !set["firings"] {
		*dst.firings = cfg.GetRecDerecFirings()
	}
	if start, end, ok := cfg.SteadyWindow(); ok && dst.start != nil && !set["start"] && !set["end"] {
		*dst.start = start
		*dst.end = end
	}
	if dst.dbPath != nil && cfg.DatabasePath != nil && !set["db"] {
		*dst.dbPath = cfg.GetDatabasePath()
	}
	if dst.outDir != nil && cfg.OutputDir != nil && !set["outdir"] {
		*dst.outDir = cfg.GetOutputDir()
	}
	return nil
}

// analysisReport is the persisted body of an analyze run; the report store
// adds the envelope fields on save.
type analysisReport struct {
	SourceFile   string       `json:"source_file"`
	SampleRateHz float64      `json:"sampling_rate_hz"`
	Mode         covisi.Mode  `json:"mode"`
	Units        []covisi.Row `json:"units"`
}

// runAnalyze computes CoVISI tables for one or more containers, sequentially.
// A failing file aborts the batch; files before it keep their outputs.
func runAnalyze(args []string) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	mode := fs.String("mode", "auto", "Analysis mode: auto or steady")
	start := fs.Float64("start", 0, "Steady-state window start in seconds (steady mode)")
	end := fs.Float64("end", 0, "Steady-state window end in seconds (steady mode)")
	firings := fs.Int("firings", covisi.DefaultRecDerecFirings, "Boundary firings at recruitment/derecruitment")
	threshold := fs.Float64("threshold", covisi.DefaultThreshold, "CoVISI threshold in percent (classification display and run record)")
	out := fs.String("out", "", "Report JSON path (single input only; default <input>.covisi.json)")
	outDir := fs.String("outdir", "", "Directory for derived report paths")
	plotPath := fs.String("plot", "", "PNG plot path (single input only)")
	dbPath := fs.String("db", "", "Run database path (omit to skip recording)")
	cfgPath := fs.String("config", "", "Analysis config JSON providing flag defaults")
	fs.Parse(args)

	err := applyConfigFile(fs, *cfgPath, analysisFlags{
		threshold: threshold,
		firings:   firings,
		start:     start,
		end:       end,
		dbPath:    dbPath,
		outDir:    outDir,
	})
	if err != nil {
		log.Fatalf("analyze: %v", err)
	}

	files := fs.Args()
	if len(files) == 0 {
		log.Fatal("analyze: no container files given")
	}
	if len(files) > 1 && (*out != "" || *plotPath != "") {
		log.Fatal("analyze: -out and -plot require a single input file")
	}

	for _, path := range files {
		outPath := *out
		if outPath == "" {
			dir := *outDir
			if dir == "" {
				dir = filepath.Dir(path)
			}
			outPath = filepath.Join(dir, filepath.Base(path)+".covisi.json")
		}
		if err := analyzeOne(path, *mode, *start, *end, *firings, *threshold, outPath, *plotPath, *dbPath); err != nil {
			log.Fatalf("analyze %s: %v", path, err)
		}
	}
}

func analyzeOne(path, mode string, start, end float64, firings int, threshold float64, out, plotPath, dbPath string) error {
	f, err := emg.Load(path)
	if err != nil {
		return err
	}

	opts := covisi.Options{
		Mode:             covisi.Mode(mode),
		NFiringsRecDerec: firings,
		StartSteady:      start,
		EndSteady:        end,
	}
	table, err := covisi.ComputeAll(f, opts)
	if err != nil {
		return err
	}

	for _, row := range table.Rows {
		fmt.Printf("MU %3d  covisi_all=%8.2f%%  %s\n",
			row.MUIndex, float64(row.All), covisi.Classify(float64(row.All)))
	}

	rep := analysisReport{
		SourceFile:   path,
		SampleRateHz: f.SampleRate,
		Mode:         table.Mode,
		Units:        table.Rows,
	}
	if err := report.DefaultStore().Save(rep, out, report.TypePreFilter, threshold); err != nil {
		return err
	}

	if plotPath != "" {
		if err := charts.SaveCoVISIPlot(table, threshold, "CoVISI "+path, plotPath); err != nil {
			return err
		}
	}

	outPath := out
	recordRun(dbPath, &analysisdb.AnalysisRun{
		SourceFile: path,
		ReportType: report.TypePreFilter,
		Threshold:  threshold,
		MUCount:    table.Len(),
		KeptCount:  table.Len(),
		ReportPath: &outPath,
	})
	return nil
}

// runFilter filters a container by CoVISI threshold and manual overrides,
// writing the restructured container and a pre-filter report.
func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	in := fs.String("in", "", "Input container JSON path")
	out := fs.String("out", "", "Filtered container output path")
	reportPath := fs.String("report", "", "Filter report JSON path (default <out>.report.json)")
	threshold := fs.Float64("threshold", covisi.DefaultThreshold, "CoVISI threshold in percent")
	column := fs.String("column", covisi.ColumnAll, "Table column to filter on (covisi_all or covisi_steady)")
	overrides := fs.String("override", "", "Manual overrides, e.g. '1=Keep,3=Filter'")
	mode := fs.String("mode", "auto", "Analysis mode: auto or steady")
	start := fs.Float64("start", 0, "Steady-state window start in seconds (steady mode)")
	end := fs.Float64("end", 0, "Steady-state window end in seconds (steady mode)")
	firings := fs.Int("firings", covisi.DefaultRecDerecFirings, "Boundary firings at recruitment/derecruitment")
	dbPath := fs.String("db", "", "Run database path (omit to skip recording)")
	cfgPath := fs.String("config", "", "Analysis config JSON providing flag defaults")
	fs.Parse(args)

	if *in == "" || *out == "" {
		log.Fatal("filter: -in and -out are required")
	}
	err := applyConfigFile(fs, *cfgPath, analysisFlags{
		threshold: threshold,
		firings:   firings,
		start:     start,
		end:       end,
		dbPath:    dbPath,
	})
	if err != nil {
		log.Fatalf("filter: %v", err)
	}

	overrideMap, err := parseOverrides(*overrides)
	if err != nil {
		log.Fatalf("filter: %v", err)
	}

	f, err := emg.Load(*in)
	if err != nil {
		log.Fatalf("filter: %v", err)
	}

	filtered, result, err := covisi.FilterContainer(f,
		covisi.Options{
			Mode:             covisi.Mode(*mode),
			NFiringsRecDerec: *firings,
			StartSteady:      *start,
			EndSteady:        *end,
		},
		covisi.FilterOptions{
			Threshold: *threshold,
			Column:    *column,
			Overrides: overrideMap,
		})
	if err != nil {
		log.Fatalf("filter %s: %v", *in, err)
	}

	if err := emg.Save(filtered, *out); err != nil {
		log.Fatalf("filter: %v", err)
	}

	rp := *reportPath
	if rp == "" {
		rp = *out + ".report.json"
	}
	rep := result.Report(*threshold)
	if err := report.DefaultStore().Save(rep, rp, report.TypePreFilter, *threshold); err != nil {
		log.Fatalf("filter: %v", err)
	}

	fmt.Printf("kept %d of %d motor units (removed: %v)\n",
		rep.FilteredMUCount, rep.OriginalMUCount, rep.RemovedMUIndices)

	recordRun(*dbPath, &analysisdb.AnalysisRun{
		SourceFile:   *in,
		ReportType:   report.TypePreFilter,
		Threshold:    *threshold,
		MUCount:      rep.OriginalMUCount,
		KeptCount:    rep.FilteredMUCount,
		RemovedCount: rep.RemovedCount,
		ReportPath:   &rp,
	})
}

// runCompare reconciles two saved analyze reports.
func runCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	prePath := fs.String("pre", "", "Pre-cleaning analyze report JSON")
	postPath := fs.String("post", "", "Post-cleaning analyze report JSON")
	out := fs.String("out", "comparison.json", "Comparison report output path")
	chartPath := fs.String("chart", "", "HTML comparison chart path (optional)")
	threshold := fs.Float64("threshold", covisi.DefaultThreshold, "CoVISI threshold in percent")
	dbPath := fs.String("db", "", "Run database path (omit to skip recording)")
	cfgPath := fs.String("config", "", "Analysis config JSON providing flag defaults")
	fs.Parse(args)

	if *prePath == "" || *postPath == "" {
		log.Fatal("compare: -pre and -post are required")
	}
	if err := applyConfigFile(fs, *cfgPath, analysisFlags{threshold: threshold, dbPath: dbPath}); err != nil {
		log.Fatalf("compare: %v", err)
	}

	pre, err := loadAnalysisTable(*prePath)
	if err != nil {
		log.Fatalf("compare: %v", err)
	}
	post, err := loadAnalysisTable(*postPath)
	if err != nil {
		log.Fatalf("compare: %v", err)
	}

	cmp := covisi.Compare(pre, post, *threshold)
	if err := report.DefaultStore().Save(cmp, *out, report.TypePostValidation, *threshold); err != nil {
		log.Fatalf("compare: %v", err)
	}

	fmt.Printf("pre=%d post=%d removed=%d exceeding=%v\n",
		cmp.PreMUCount, cmp.PostMUCount, cmp.MUsRemoved, cmp.MUsExceedingThreshold)

	if *chartPath != "" {
		if err := charts.SaveComparisonChart(cmp, "", *chartPath); err != nil {
			log.Fatalf("compare: %v", err)
		}
	}

	outPath := *out
	recordRun(*dbPath, &analysisdb.AnalysisRun{
		SourceFile:   *postPath,
		ReportType:   report.TypePostValidation,
		Threshold:    *threshold,
		MUCount:      cmp.PostMUCount,
		KeptCount:    cmp.PostMUCount - len(cmp.MUsExceedingThreshold),
		RemovedCount: len(cmp.MUsExceedingThreshold),
		ReportPath:   &outPath,
	})
}

// runChart renders charts from previously saved reports.
func runChart(args []string) {
	fs := flag.NewFlagSet("chart", flag.ExitOnError)
	comparison := fs.String("comparison", "", "Comparison report JSON to chart as HTML")
	analysis := fs.String("analysis", "", "Analyze report JSON to plot as PNG")
	out := fs.String("out", "", "Output path (.html for -comparison, .png for -analysis)")
	threshold := fs.Float64("threshold", covisi.DefaultThreshold, "Threshold line for -analysis plots")
	fs.Parse(args)

	switch {
	case *comparison != "" && *out != "":
		data, err := os.ReadFile(*comparison)
		if err != nil {
			log.Fatalf("chart: %v", err)
		}
		var cmp covisi.Comparison
		if err := json.Unmarshal(data, &cmp); err != nil {
			log.Fatalf("chart: parse %s: %v", *comparison, err)
		}
		if err := charts.SaveComparisonChart(&cmp, "", *out); err != nil {
			log.Fatalf("chart: %v", err)
		}
	case *analysis != "" && *out != "":
		table, err := loadAnalysisTable(*analysis)
		if err != nil {
			log.Fatalf("chart: %v", err)
		}
		if err := charts.SaveCoVISIPlot(table, *threshold, "CoVISI "+*analysis, *out); err != nil {
			log.Fatalf("chart: %v", err)
		}
	default:
		log.Fatal("chart: need -comparison or -analysis, plus -out")
	}
}

// runRuns lists recorded analysis runs.
func runRuns(args []string) {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "covisi_runs.db", "Run database path")
	limit := fs.Int("limit", 20, "Maximum number of runs to list")
	file := fs.String("file", "", "Only list runs for this source file")
	fs.Parse(args)

	db, err := openRunDB(*dbPath)
	if err != nil {
		log.Fatalf("runs: %v", err)
	}
	defer db.Close()

	var runs []analysisdb.AnalysisRun
	if *file != "" {
		runs, err = db.RunsForFile(*file, *limit)
	} else {
		runs, err = db.RecentRuns(*limit)
	}
	if err != nil {
		log.Fatalf("runs: %v", err)
	}

	for _, r := range runs {
		fmt.Printf("%s  %-16s thr=%5.1f%%  mus=%3d kept=%3d removed=%3d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.ReportType, r.Threshold, r.MUCount, r.KeptCount, r.RemovedCount, r.SourceFile)
	}
}

// runMigrate manages the run-database schema.
func runMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("db", "covisi_runs.db", "Run database path")
	fs.Parse(args)

	if fs.NArg() < 1 {
		log.Fatal("migrate: need an action: up or status")
	}

	db, err := analysisdb.Open(*dbPath)
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	defer db.Close()

	switch fs.Arg(0) {
	case "up":
		if err := db.MigrateUp(analysisdb.MigrationsFS()); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Println("all migrations applied")
	case "status":
		version, dirty, err := db.MigrateVersion(analysisdb.MigrationsFS())
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
		fmt.Printf("version=%d dirty=%v\n", version, dirty)
	default:
		log.Fatalf("migrate: unknown action %q (want up or status)", fs.Arg(0))
	}
}

// loadAnalysisTable reads a saved analyze report back into a CoVISI table.
func loadAnalysisTable(path string) (*covisi.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	var rep analysisReport
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &covisi.Table{Mode: rep.Mode, Rows: rep.Units}, nil
}

// parseOverrides parses "1=Keep,3=Filter" into an override map.
func parseOverrides(s string) (map[int]covisi.Override, error) {
	if s == "" {
		return nil, nil
	}
	out := make(map[int]covisi.Override)
	for _, pair := range strings.Split(s, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(pair), "=")
		if !found {
			return nil, fmt.Errorf("invalid override %q (want index=Keep|Filter)", pair)
		}
		idx, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid override index %q: %w", key, err)
		}
		out[idx] = covisi.Override(value)
	}
	return out, nil
}

// openRunDB opens the run database and brings its schema current.
func openRunDB(path string) (*analysisdb.DB, error) {
	db, err := analysisdb.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(analysisdb.MigrationsFS()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// recordRun stores the run when a database path is configured. Failures are
// logged, not fatal: the analysis outputs already exist on disk.
func recordRun(dbPath string, run *analysisdb.AnalysisRun) {
	if dbPath == "" {
		return
	}

	db, err := openRunDB(dbPath)
	if err != nil {
		log.Printf("record run: %v", err)
		return
	}
	defer db.Close()

	if err := db.CreateAnalysisRun(run); err != nil {
		log.Printf("record run: %v", err)
	}
}
