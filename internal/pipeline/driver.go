package pipeline

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Typas/GW2-api-img/internal/gw2api"
	"github.com/Typas/GW2-api-img/internal/markdown"
	"github.com/Typas/GW2-api-img/internal/refdata"
)

// Source is the remote data the pipeline reads. *gw2api.Client implements it.
type Source interface {
	IDs(ctx context.Context, category gw2api.Category) ([]uint64, error)
	Records(ctx context.Context, category gw2api.Category, ids []uint64) ([]json.RawMessage, error)
}

// Stats summarizes one run for logging and status output.
type Stats struct {
	RunID           string
	Specializations int
	Skills          int
	Traits          int
	Buffs           int
	Lines           int
	Duration        time.Duration
}

// categories is the fixed fetch order.
var categories = [3]gw2api.Category{gw2api.Specializations, gw2api.Skills, gw2api.Traits}

// Driver builds the buff, trait and skill reference sheets.
type Driver struct {
	src    Source
	logger *slog.Logger
}

// NewDriver creates a Driver reading from src. A nil logger uses slog.Default().
func NewDriver(src Source, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{src: src, logger: logger}
}

// Run executes the whole pipeline and returns the markdown lines:
//  1. Fetch the id catalogs of specializations, skills and traits
//  2. Fetch the full records of each category in chunks
//  3. Extract buffs from the full trait records
//  4. Project skills and traits
//  5. Index specializations and join them onto the traits
//  6. Render buffs, traits and skills, in that order
//
// Any failure aborts the run and no lines are returned.
func (d *Driver) Run(ctx context.Context) ([]string, Stats, error) {
	start := time.Now()
	stats := Stats{RunID: uuid.New().String()}
	log := d.logger.With("run_id", stats.RunID)

	var err error

	// 1. Catalogs.
	var ids [3][]uint64
	for i, c := range categories {
		if ids[i], err = d.src.IDs(ctx, c); err != nil {
			return nil, Stats{}, fmt.Errorf("listing %s: %w", c, err)
		}
		log.Debug("catalog fetched", "category", string(c), "ids", len(ids[i]))
	}

	// 2. Records.
	var recs [3][]json.RawMessage
	for i, c := range categories {
		if recs[i], err = d.src.Records(ctx, c, ids[i]); err != nil {
			return nil, Stats{}, fmt.Errorf("fetching %s: %w", c, err)
		}
		log.Info("records fetched", "category", string(c), "records", len(recs[i]))
	}
	specRecs, skillRecs, traitRecs := recs[0], recs[1], recs[2]

	// 3. Buffs come from the unprojected trait records.
	buffs, err := refdata.ExtractBuffs(traitRecs)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("extracting buffs: %w", err)
	}

	// 4. Project.
	skills, err := refdata.ProjectSkills(skillRecs)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("projecting skills: %w", err)
	}
	traits, err := refdata.ProjectTraits(traitRecs)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("projecting traits: %w", err)
	}

	// 5. Join.
	idx, err := refdata.BuildSpecIndex(specRecs)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("indexing specializations: %w", err)
	}
	if err := refdata.Enrich(traits, idx); err != nil {
		return nil, Stats{}, fmt.Errorf("enriching traits: %w", err)
	}

	// 6. Render.
	var lines []string
	lines = append(lines, markdown.Buffs(buffs)...)
	lines = append(lines, markdown.Traits(traits)...)
	lines = append(lines, markdown.Skills(skills)...)

	stats.Specializations = len(idx)
	stats.Skills = len(skills)
	stats.Traits = len(traits)
	stats.Buffs = len(buffs)
	stats.Lines = len(lines)
	stats.Duration = time.Since(start)

	log.Info("reference sheets rendered",
		"specializations", stats.Specializations,
		"skills", stats.Skills,
		"skills_fetched", len(skillRecs),
		"traits", stats.Traits,
		"buffs", stats.Buffs,
		"lines", stats.Lines,
		"duration_ms", stats.Duration.Milliseconds(),
	)
	return lines, stats, nil
}

// Write writes lines to w, one per line.
func Write(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if _, err := bw.WriteString(l); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
