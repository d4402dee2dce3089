package geodesy

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/golang/geo/s2"
)

// NTv2 files are a sequence of fixed 16-byte records: an 8-byte ASCII
// tag followed by an 8-byte little-endian value (int32 plus padding,
// float64, or ASCII). The file header and each sub-grid header are
// described below as declarative schemas so the layout is checked
// field by field while parsing.

const ntv2RecordSize = 16

type ntv2FieldKind int

const (
	ntv2String ntv2FieldKind = iota
	ntv2Int32
	ntv2Float64
)

type ntv2Field struct {
	name string
	kind ntv2FieldKind
}

var ntv2FileHeaderSchema = []ntv2Field{
	{"NUM_OREC", ntv2Int32},
	{"NUM_SREC", ntv2Int32},
	{"NUM_FILE", ntv2Int32},
	{"GS_TYPE", ntv2String},
	{"VERSION", ntv2String},
	{"SYSTEM_F", ntv2String},
	{"SYSTEM_T", ntv2String},
	{"MAJOR_F", ntv2Float64},
	{"MINOR_F", ntv2Float64},
	{"MAJOR_T", ntv2Float64},
	{"MINOR_T", ntv2Float64},
}

var ntv2SubGridHeaderSchema = []ntv2Field{
	{"SUB_NAME", ntv2String},
	{"PARENT", ntv2String},
	{"CREATED", ntv2String},
	{"UPDATED", ntv2String},
	{"S_LAT", ntv2Float64},
	{"N_LAT", ntv2Float64},
	{"E_LONG", ntv2Float64},
	{"W_LONG", ntv2Float64},
	{"LAT_INC", ntv2Float64},
	{"LONG_INC", ntv2Float64},
	{"GS_COUNT", ntv2Int32},
}

type ntv2Record struct {
	str map[string]string
	i32 map[string]int32
	f64 map[string]float64
}

// decodeRecords reads len(schema) tagged records starting at off,
// validating each tag against the schema. It fails fast on a tag
// mismatch or a truncated file.
func decodeRecords(data []byte, off int64, schema []ntv2Field) (*ntv2Record, int64, error) {
	rec := &ntv2Record{
		str: make(map[string]string),
		i32: make(map[string]int32),
		f64: make(map[string]float64),
	}
	for _, field := range schema {
		if off+ntv2RecordSize > int64(len(data)) {
			return nil, 0, &ErrFormat{Field: field.name, Reason: "unexpected end of file"}
		}
		tag := strings.TrimRight(string(data[off:off+8]), " \x00")
		if tag != field.name {
			return nil, 0, &ErrFormat{Field: field.name, Reason: fmt.Sprintf("found tag %q", tag)}
		}
		val := data[off+8 : off+ntv2RecordSize]
		switch field.kind {
		case ntv2String:
			rec.str[field.name] = strings.TrimRight(string(val), " \x00")
		case ntv2Int32:
			rec.i32[field.name] = int32(binary.LittleEndian.Uint32(val))
		case ntv2Float64:
			rec.f64[field.name] = math.Float64frombits(binary.LittleEndian.Uint64(val))
		}
		off += ntv2RecordSize
	}
	return rec, off, nil
}

// GridHeader is the NTv2 file header.
type GridHeader struct {
	NumOverviewRecords int32
	NumSubGridRecords  int32
	NumSubGrids        int32
	GSType             string // unit of the grid values, normally SECONDS
	Version            string
	SystemFrom         string
	SystemTo           string
	SemiMajorFrom      float64
	SemiMinorFrom      float64
	SemiMajorTo        float64
	SemiMinorTo        float64
}

// SubGrid is one sub-grid of an NTv2 file. Bounds and increments are in
// arc-seconds with longitude positive west, as stored in the file.
// Node values are not loaded; they are read by offset on demand.
type SubGrid struct {
	Name    string
	Parent  string
	Created string // DDMMYYYY
	Updated string // DDMMYYYY

	SLat, NLat     float64
	ELong, WLong   float64
	LatInc         float64
	LongInc        float64
	Count          int32

	rows, cols int
	offset     int64 // byte offset of the first node record
}

// boundaryTolSec absorbs the rounding of query coordinates converted
// through radians, which can land a few nano-arc-seconds outside a
// file-declared bound.
const boundaryTolSec = 1e-6

func (g *SubGrid) contains(latSec, lonSec float64) bool {
	return latSec >= g.SLat-boundaryTolSec && latSec <= g.NLat+boundaryTolSec &&
		lonSec >= g.ELong-boundaryTolSec && lonSec <= g.WLong+boundaryTolSec
}

// Bounds implements rtreego.Spatial over the sub-grid bounding box in
// (latitude, west-positive longitude) arc-seconds.
func (g *SubGrid) Bounds() rtreego.Rect {
	r, err := rtreego.NewRectFromPoints(
		rtreego.Point{g.SLat, g.ELong},
		rtreego.Point{g.NLat, g.WLong},
	)
	if err != nil {
		// increments and extents are validated at parse time
		panic(err)
	}
	return r
}

// GridValue holds the three corrections stored per node: the
// geoid-ellipsoid separation in metres and the deflections of the
// vertical in arc-seconds.
type GridValue struct {
	Separation    float64
	DeflectionXi  float64
	DeflectionEta float64
}

// GridFile is a parsed NTv2 correction grid. The file is memory-mapped
// read-only and the sub-grid index is built once at open, so a single
// GridFile may serve concurrent queries without synchronisation: node
// reads are slice indexing into the mapping, with no shared cursor.
type GridFile struct {
	Header   GridHeader
	SubGrids []*SubGrid

	path  string
	data  []byte
	index *rtreego.Rtree
}

// OpenGrid memory-maps an NTv2 file and parses its header and sub-grid
// headers. Node data is validated for length but left on disk.
func OpenGrid(path string) (*GridFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.Size() == 0 {
		return nil, &ErrFormat{Field: "file", Reason: "empty file"}
	}

	data, err := mapFile(f.Fd(), int(fi.Size()))
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	g, err := parseGrid(data)
	if err != nil {
		unmapFile(data)
		return nil, err
	}
	g.path = path
	return g, nil
}

// Close releases the memory mapping. The GridFile must not be queried
// after Close.
func (gf *GridFile) Close() error {
	if gf.data != nil {
		err := unmapFile(gf.data)
		gf.data = nil
		return err
	}
	return nil
}

// Path returns the file path the grid was opened from.
func (gf *GridFile) Path() string {
	return gf.path
}

func parseGrid(data []byte) (*GridFile, error) {
	rec, off, err := decodeRecords(data, 0, ntv2FileHeaderSchema)
	if err != nil {
		return nil, err
	}

	header := GridHeader{
		NumOverviewRecords: rec.i32["NUM_OREC"],
		NumSubGridRecords:  rec.i32["NUM_SREC"],
		NumSubGrids:        rec.i32["NUM_FILE"],
		GSType:             rec.str["GS_TYPE"],
		Version:            rec.str["VERSION"],
		SystemFrom:         rec.str["SYSTEM_F"],
		SystemTo:           rec.str["SYSTEM_T"],
		SemiMajorFrom:      rec.f64["MAJOR_F"],
		SemiMinorFrom:      rec.f64["MINOR_F"],
		SemiMajorTo:        rec.f64["MAJOR_T"],
		SemiMinorTo:        rec.f64["MINOR_T"],
	}
	if header.NumOverviewRecords != int32(len(ntv2FileHeaderSchema)) {
		return nil, &ErrFormat{Field: "NUM_OREC", Reason: fmt.Sprintf("expected %d, got %d", len(ntv2FileHeaderSchema), header.NumOverviewRecords)}
	}
	if header.NumSubGridRecords != int32(len(ntv2SubGridHeaderSchema)) {
		return nil, &ErrFormat{Field: "NUM_SREC", Reason: fmt.Sprintf("expected %d, got %d", len(ntv2SubGridHeaderSchema), header.NumSubGridRecords)}
	}
	if header.NumSubGrids < 1 {
		return nil, &ErrFormat{Field: "NUM_FILE", Reason: fmt.Sprintf("expected at least one sub-grid, got %d", header.NumSubGrids)}
	}

	gf := &GridFile{
		Header: header,
		data:   data,
		index:  rtreego.NewTree(2, 25, 50),
	}

	for i := int32(0); i < header.NumSubGrids; i++ {
		var sub *ntv2Record
		sub, off, err = decodeRecords(data, off, ntv2SubGridHeaderSchema)
		if err != nil {
			return nil, err
		}

		g := &SubGrid{
			Name:    sub.str["SUB_NAME"],
			Parent:  sub.str["PARENT"],
			Created: sub.str["CREATED"],
			Updated: sub.str["UPDATED"],
			SLat:    sub.f64["S_LAT"],
			NLat:    sub.f64["N_LAT"],
			ELong:   sub.f64["E_LONG"],
			WLong:   sub.f64["W_LONG"],
			LatInc:  sub.f64["LAT_INC"],
			LongInc: sub.f64["LONG_INC"],
			Count:   sub.i32["GS_COUNT"],
			offset:  off,
		}
		if g.LatInc <= 0 || g.LongInc <= 0 {
			return nil, &ErrFormat{Field: "LAT_INC", Reason: fmt.Sprintf("sub-grid %s: increments must be positive", g.Name)}
		}
		if g.NLat <= g.SLat || g.WLong <= g.ELong {
			return nil, &ErrFormat{Field: "S_LAT", Reason: fmt.Sprintf("sub-grid %s: inverted bounding box", g.Name)}
		}
		g.rows = int(math.Round((g.NLat-g.SLat)/g.LatInc)) + 1
		g.cols = int(math.Round((g.WLong-g.ELong)/g.LongInc)) + 1
		if int32(g.rows*g.cols) != g.Count {
			return nil, &ErrFormat{Field: "GS_COUNT", Reason: fmt.Sprintf("sub-grid %s: %d nodes declared, bounding box implies %d", g.Name, g.Count, g.rows*g.cols)}
		}

		nodeBytes := int64(g.Count) * ntv2RecordSize
		if off+nodeBytes > int64(len(data)) {
			return nil, &ErrFormat{Field: "GS_COUNT", Reason: fmt.Sprintf("sub-grid %s: node data extends past end of file", g.Name)}
		}
		off += nodeBytes

		gf.SubGrids = append(gf.SubGrids, g)
		gf.index.Insert(g)
	}

	return gf, nil
}

// NodeValue returns the corrections stored at an exact grid node.
// Row 0 is the southern edge; column 0 is the eastern edge (lowest
// west-positive longitude).
func (gf *GridFile) NodeValue(g *SubGrid, row, col int) (GridValue, error) {
	if row < 0 || row >= g.rows {
		return GridValue{}, &ErrInputRange{Field: "row", Value: float64(row), Min: 0, Max: float64(g.rows - 1)}
	}
	if col < 0 || col >= g.cols {
		return GridValue{}, &ErrInputRange{Field: "col", Value: float64(col), Min: 0, Max: float64(g.cols - 1)}
	}
	v := gf.nodeVec(g, row, col)
	return GridValue{Separation: v[0], DeflectionXi: v[1], DeflectionEta: v[2]}, nil
}

// nodeVec reads a node's three corrections. Indices must already be in
// range; the node region was length-checked at parse time.
func (gf *GridFile) nodeVec(g *SubGrid, row, col int) [3]float64 {
	off := g.offset + int64(row*g.cols+col)*ntv2RecordSize
	le := binary.LittleEndian
	return [3]float64{
		float64(math.Float32frombits(le.Uint32(gf.data[off:]))),
		float64(math.Float32frombits(le.Uint32(gf.data[off+4:]))),
		float64(math.Float32frombits(le.Uint32(gf.data[off+8:]))),
	}
}

// InterpolationMethod selects the interpolation kernel used for grid
// queries.
type InterpolationMethod int

const (
	// Bilinear interpolates over the 4 surrounding nodes.
	Bilinear InterpolationMethod = iota
	// Bicubic fits a Hermite surface over the 16 surrounding nodes.
	Bicubic
)

// Interpolate returns the corrections at a geographic point. When the
// point lies inside several nested sub-grids, the one with the finest
// latitude increment wins (the NTv2 child-grid override rule). A point
// outside every sub-grid surfaces ErrGridCoverage.
func (gf *GridFile) Interpolate(geo s2.LatLng, method InterpolationMethod) (GridValue, error) {
	if err := validateLatLng(geo); err != nil {
		return GridValue{}, err
	}

	lat := geo.Lat.Degrees()
	lng := geo.Lng.Degrees()
	latSec := lat * 3600
	lonSec := -lng * 3600 // the file stores longitude west-positive

	g := gf.subGridAt(latSec, lonSec)
	if g == nil {
		return GridValue{}, &ErrGridCoverage{Lat: lat, Lon: lng}
	}
	if g.rows < 2 || g.cols < 2 {
		return GridValue{}, &ErrFormat{Field: "GS_COUNT", Reason: fmt.Sprintf("sub-grid %s is too small to interpolate", g.Name)}
	}

	fRow := (latSec - g.SLat) / g.LatInc
	fCol := (lonSec - g.ELong) / g.LongInc
	row := int(math.Floor(fRow))
	col := int(math.Floor(fCol))
	// a point on or fractionally past an edge uses the nearest full cell
	if row < 0 {
		row = 0
	}
	if col < 0 {
		col = 0
	}
	if row > g.rows-2 {
		row = g.rows - 2
	}
	if col > g.cols-2 {
		col = g.cols - 2
	}
	u := fRow - float64(row)
	v := fCol - float64(col)

	switch method {
	case Bilinear:
		return gf.bilinear(g, row, col, u, v), nil
	case Bicubic:
		return gf.bicubic(g, row, col, u, v), nil
	default:
		return GridValue{}, &ErrInputRange{Field: "interpolation method", Value: float64(method), Min: float64(Bilinear), Max: float64(Bicubic)}
	}
}

// subGridAt returns the finest-resolution sub-grid containing the
// point, or nil.
func (gf *GridFile) subGridAt(latSec, lonSec float64) *SubGrid {
	point := rtreego.Point{latSec, lonSec}
	var best *SubGrid
	for _, match := range gf.index.SearchIntersect(point.ToRect(boundaryTolSec)) {
		g := match.(*SubGrid)
		if !g.contains(latSec, lonSec) {
			continue
		}
		if best == nil || g.LatInc < best.LatInc {
			best = g
		}
	}
	return best
}
