package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/terrain"
	"github.com/VoidMesh/worldgen/internal/world"
)

// Color definitions
var (
	PrimaryColor   = lipgloss.Color("#7D56F4")
	SecondaryColor = lipgloss.Color("#04B575")
	AccentColor    = lipgloss.Color("#FFD700")
	DangerColor    = lipgloss.Color("#F25D94")

	LightGray = lipgloss.Color("#D9D9D9")
	Gray      = lipgloss.Color("#8B8B8B")
	DarkGray  = lipgloss.Color("#383838")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true).
			Padding(0, 1)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Gray).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(Gray).
			Width(16)

	ValueStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(DangerColor).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(AccentColor).
			Background(DarkGray).
			Bold(true)
)

// Map symbols
const (
	PathSymbol    = '@'
	UnknownSymbol = '?'
)

var terrainSymbols = map[terrain.Category]rune{
	terrain.Ocean:     '~',
	terrain.Lake:      '=',
	terrain.Pond:      'o',
	terrain.River:     '%',
	terrain.Grassland: '.',
	terrain.Forest:    'T',
	terrain.Mountain:  '^',
	terrain.IceCap:    '*',
}

// TerrainSymbol returns the map glyph for a category.
func TerrainSymbol(c terrain.Category) rune {
	if r, ok := terrainSymbols[c]; ok {
		return r
	}
	return UnknownSymbol
}

// Glyphs lays out one rune per tile, row-major, with path tiles overlaid.
func Glyphs(tiles *grid.Grid[terrain.Tile], path []grid.Point) [][]rune {
	rows := make([][]rune, tiles.Height())
	for y := range rows {
		rows[y] = make([]rune, tiles.Width())
	}
	tiles.Each(func(x, y int, t terrain.Tile) {
		rows[y][x] = TerrainSymbol(t.Terrain)
	})
	for _, p := range path {
		if tiles.InBounds(p.X, p.Y) {
			rows[p.Y][p.X] = PathSymbol
		}
	}
	return rows
}

// RenderMap draws the tile map coloured by each terrain's registry colour.
func RenderMap(tiles *grid.Grid[terrain.Tile], reg terrain.Registry, path []grid.Point) string {
	styles := make(map[terrain.Category]lipgloss.Style)
	for _, d := range reg.All() {
		styles[d.Name] = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#101010")).
			Background(lipgloss.Color(d.Visual.BaseColor))
	}

	onPath := make(map[grid.Point]bool, len(path))
	for _, p := range path {
		onPath[p] = true
	}

	glyphs := Glyphs(tiles, path)
	var b strings.Builder
	for y, row := range glyphs {
		for x, r := range row {
			cell := string(r)
			style, ok := styles[tiles.At(x, y).Terrain]
			switch {
			case onPath[grid.Point{X: x, Y: y}]:
				b.WriteString(PathStyle.Render(cell))
			case ok:
				b.WriteString(style.Render(cell))
			default:
				b.WriteString(cell)
			}
		}
		if y < len(glyphs)-1 {
			b.WriteByte('\n')
		}
	}
	return BorderStyle.Render(b.String())
}

// RenderLegend lists every registry terrain with its glyph.
func RenderLegend(reg terrain.Registry) string {
	var lines []string
	for _, d := range reg.All() {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(d.Visual.BaseColor)).Render(string(TerrainSymbol(d.Name)))
		lines = append(lines, fmt.Sprintf("%s %s", swatch, d.Name))
	}
	lines = append(lines, fmt.Sprintf("%s path", PathStyle.Render(string(PathSymbol))))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func row(label string, value interface{}) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), ValueStyle.Render(fmt.Sprint(value)))
}

// RenderSummary formats world statistics as a bordered panel.
func RenderSummary(s world.Summary) string {
	lines := []string{
		TitleStyle.Render("World " + s.ID),
		row("seed", s.Seed),
		row("size", fmt.Sprintf("%dx%d (x%d, %gm/tile)", s.SizeX, s.SizeY, s.Subdivisions, s.Scale)),
		row("peaks", s.Peaks),
		row("levels", fmt.Sprintf("water %.3f  mountain %.3f  ice %.3f", s.Levels.Water, s.Levels.Mountain, s.Levels.Ice)),
		row("water", fmt.Sprintf("%.1f%% in %d bodies", s.WaterFraction*100, s.WaterBodies)),
		row("rivers", fmt.Sprintf("%d %v", s.RiverCount, s.RiverLengths)),
		row("forest", fmt.Sprintf("%d tiles in patches %v", s.ForestTiles, s.PatchSizes)),
		row("trees", s.TreeCount),
		SubtitleStyle.Render("Terrain"),
	}

	cats := make([]string, 0, len(s.Histogram))
	for c := range s.Histogram {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)
	for _, c := range cats {
		lines = append(lines, row(c, s.Histogram[terrain.Category(c)]))
	}

	return BorderStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
