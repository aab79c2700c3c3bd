package badge

import (
	"fmt"
	"html/template"
	"io"
	"strings"

	"landlord_rep/internal/adapters/observability"
	"landlord_rep/internal/reputation"
)

var svgTmpl = template.Must(template.New("badge").Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="{{.Width}}" height="{{.Height}}" role="img" aria-label="{{.Title}}">
<title>{{.Title}}</title>
<defs>{{range .Stars}}
<linearGradient id="fill{{.Index}}"><stop offset="{{.Offset}}" stop-color="#ffb300"/><stop offset="{{.Offset}}" stop-color="#e0e0e0"/></linearGradient>{{end}}
</defs>
<rect width="{{.Width}}" height="{{.Height}}" rx="4" fill="#ffffff" stroke="{{.Color}}"/>{{range .Stars}}
<polygon points="{{.Points}}" fill="url(#fill{{.Index}})"/>{{end}}
<text x="{{.TextX}}" y="{{.TextY}}" font-family="sans-serif" font-size="12" fill="{{.Color}}">{{.Caption}}</text>
</svg>
`))

type svgStar struct {
	Index  int
	Offset string
	Points string
}

type svgData struct {
	Width, Height int
	TextX, TextY  int
	Title         string
	Caption       string
	Color         string
	Stars         []svgStar
}

// RenderSVG writes an SVG badge. Each star gets a hard-stop gradient at
// its fill fraction, so a 3.4 shows three full stars and a 40% star.
func RenderSVG(w io.Writer, in Input) error {
	fill := in.Reputation.Stars
	d := svgData{
		Width:   width,
		Height:  height,
		TextX:   textX,
		TextY:   padding + starSize - 5,
		Title:   strings.TrimSpace(in.Name + " " + in.Caption()),
		Caption: in.Caption(),
		Color:   tierColor(in.Reputation.Tier),
	}
	for i := 0; i < reputation.StarCount; i++ {
		pts := starPoints(starX(i), padding)
		coords := make([]string, 0, len(pts))
		for _, p := range pts {
			coords = append(coords, fmt.Sprintf("%.2f,%.2f", p[0], p[1]))
		}
		d.Stars = append(d.Stars, svgStar{
			Index:  i,
			Offset: fmt.Sprintf("%.1f%%", fill[i]*100),
			Points: strings.Join(coords, " "),
		})
	}
	if err := svgTmpl.Execute(w, d); err != nil {
		return err
	}
	observability.ObserveBadge("svg")
	return nil
}
