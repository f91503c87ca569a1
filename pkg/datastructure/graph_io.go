package datastructure

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/navigatorx-scats/pkg"
	"github.com/lintang-b-s/navigatorx-scats/pkg/util"
	"go.uber.org/zap"
)

var (
	siteIdColumns     = []string{"scats_number", "site_id", "site", "scats"}
	latitudeColumns   = []string{"latitude", "lat"}
	longitudeColumns  = []string{"longitude", "lon", "lng"}
	neighbourColumns  = []string{"neighbours", "neighbors"}
	errMissingColumns = errors.New("missing required column")
)

// ReadIntersectionGraph. read the neighbouring intersections csv (or .csv.bz2) file.
func ReadIntersectionGraph(filename string, log *zap.Logger) (*IntersectionGraph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(filename, ".bz2") {
		bz, err := bzip2.NewReader(f, &bzip2.ReaderConfig{})
		if err != nil {
			return nil, err
		}
		defer bz.Close()
		r = bz
	}

	g, err := ParseIntersectionGraph(r, log)
	if err != nil {
		return nil, fmt.Errorf("read intersection graph %s: %w", filename, err)
	}
	return g, nil
}

// ParseIntersectionGraph. parse site records with header columns Scats_number, Latitude, Longitude, Neighbours.
// malformed records are skipped with a warning.
func ParseIntersectionGraph(r io.Reader, log *zap.Logger) (*IntersectionGraph, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyGraph
		}
		return nil, err
	}

	idCol, latCol, lonCol, nbCol := findColumn(header, siteIdColumns), findColumn(header, latitudeColumns),
		findColumn(header, longitudeColumns), findColumn(header, neighbourColumns)
	if idCol < 0 || latCol < 0 || lonCol < 0 || nbCol < 0 {
		return nil, fmt.Errorf("%w: header %v", errMissingColumns, header)
	}
	maxCol := max(idCol, latCol, lonCol, nbCol)

	sites := make([]Site, 0, 128)
	line := 1
	for {
		record, err := cr.Read()
		line++
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Warn("skipping malformed graph record", zap.Int("line", line), zap.Error(err))
				continue
			}
			return nil, err
		}

		if len(record) <= maxCol {
			log.Warn("skipping malformed graph record", zap.Int("line", line),
				zap.Int("columns", len(record)))
			continue
		}

		siteId := strings.TrimSpace(record[idCol])
		lat, latErr := util.StringToFloat64(record[latCol])
		lon, lonErr := util.StringToFloat64(record[lonCol])
		if siteId == "" || latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			log.Warn("skipping malformed graph record", zap.Int("line", line), zap.String("site", siteId),
				zap.String("latitude", record[latCol]), zap.String("longitude", record[lonCol]))
			continue
		}

		sites = append(sites, NewSite(siteId, lat, lon, splitNeighbours(record[nbCol])))
	}

	g, skipped, err := NewIntersectionGraph(sites)
	for _, reason := range skipped {
		log.Warn("skipping graph record", zap.String("reason", reason))
	}
	if err != nil {
		return nil, err
	}

	log.Info("intersection graph loaded", zap.Int("sites", g.NumberOfVertices()),
		zap.Int("edges", g.NumberOfEdges()), zap.Int("components", g.NumberOfComponents()))
	if g.NumberOfComponents() > 1 {
		log.Warn("intersection graph is not connected, some site pairs have no route",
			zap.Int("components", g.NumberOfComponents()))
	}
	return g, nil
}

func splitNeighbours(s string) []string {
	parts := strings.Split(s, pkg.NEIGHBOUR_SEPARATOR)
	nbs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			nbs = append(nbs, p)
		}
	}
	return nbs
}

func findColumn(header []string, names []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for _, name := range names {
			if h == name {
				return i
			}
		}
	}
	return -1
}
