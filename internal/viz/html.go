package viz

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"html/template"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Layout string // "force", "circle", or "grid"
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{Layout: "force"}
}

// ValidLayouts lists the supported layout algorithm names.
var ValidLayouts = []string{"force", "circle", "grid"}

// GenerateHTML generates a self-contained HTML file for the graph
// visualization. When the graph carries a layout seed, the force layout is
// seeded from it so node placement is stable across re-renders.
func GenerateHTML(graph *GraphData, opts HTMLOptions) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("graph cannot be nil")
	}

	if err := validateLayout(opts.Layout); err != nil {
		return "", err
	}

	if graph.IsEmpty() {
		return generateEmptyHTML(), nil
	}

	graphJSON, err := graph.ToCytoscapeJSON()
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:      graph.Title,
		GraphJSON:  template.JS(graphJSON),
		Layout:     layoutToCytoscape(opts.Layout),
		LayoutSeed: seedValue(graph.LayoutSeed),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// validateLayout checks if the layout option is valid.
func validateLayout(layout string) error {
	switch layout {
	case "", "force", "circle", "grid":
		return nil
	default:
		return fmt.Errorf("invalid layout %q: must be force, circle, or grid", layout)
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	Title      string
	GraphJSON  template.JS
	Layout     string
	LayoutSeed uint32
}

// layoutToCytoscape converts user-friendly layout names to Cytoscape.js
// layout algorithm names.
func layoutToCytoscape(layout string) string {
	switch layout {
	case "circle":
		return "circle"
	case "grid":
		return "grid"
	default:
		return "cose"
	}
}

// seedValue hashes an opaque layout seed to the numeric seed the layout
// script consumes. Zero means "no seed".
func seedValue(seed string) uint32 {
	if seed == "" {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(seed))
	v := h.Sum32()
	if v == 0 {
		v = 1
	}
	return v
}

// generateEmptyHTML returns HTML for an empty graph state.
func generateEmptyHTML() string {
	return `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Knowledge Graph - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No graph data</h2>
    <p>This graph has no nodes to display.</p>
  </div>
</body>
</html>`
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <script src="https://unpkg.com/cytoscape@3/dist/cytoscape.min.js"></script>
  <style>
    * { box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #cy {
      width: 100%;
      height: 100vh;
      background: white;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .type {
      font-size: 10px;
      text-transform: uppercase;
      color: #888;
      margin-bottom: 4px;
    }
    #tooltip .label { font-weight: bold; }
  </style>
</head>
<body>
  <div id="cy"></div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graphData = {{.GraphJSON}};
      const layout = "{{.Layout}}";
      const layoutSeed = {{.LayoutSeed}};

      const cy = cytoscape({
        container: document.getElementById('cy'),
        elements: graphData,
        style: [
          {
            selector: 'node',
            style: {
              'background-color': 'data(color)',
              'label': 'data(label)',
              'color': '#333',
              'font-size': '11px',
              'text-valign': 'bottom',
              'text-margin-y': '5px',
              'width': '30px',
              'height': '30px'
            }
          },
          {
            selector: 'node[type="root"]',
            style: {
              'shape': 'star',
              'width': '40px',
              'height': '40px',
              'border-width': '2px',
              'border-color': '#333'
            }
          },
          {
            selector: 'node[type="expandable"]',
            style: {
              'shape': 'diamond',
              'width': '36px',
              'height': '36px',
              'border-width': '2px',
              'border-style': 'dashed',
              'border-color': '#555'
            }
          },
          {
            selector: 'edge',
            style: {
              'width': 2,
              'line-color': 'data(color)',
              'target-arrow-color': 'data(color)',
              'target-arrow-shape': 'triangle',
              'curve-style': 'bezier',
              'label': 'data(label)',
              'font-size': '9px',
              'color': '#555',
              'text-rotation': 'autorotate',
              'text-background-color': 'white',
              'text-background-opacity': 0.8
            }
          }
        ],
        layout: { name: 'preset' }
      });

      // Deterministic placement: a seeded PRNG assigns initial positions,
      // then cose refines without re-randomizing, so the same seed always
      // yields the same layout.
      let state = layoutSeed || 1;
      const rand = function() {
        state = (state * 1664525 + 1013904223) >>> 0;
        return state / 4294967296;
      };
      cy.nodes().forEach(function(n) {
        n.position({ x: rand() * 800, y: rand() * 600 });
      });
      if (layout === 'cose') {
        cy.layout({ name: 'cose', animate: false, randomize: false }).run();
      } else {
        cy.layout({ name: layout }).run();
      }

      const tooltip = document.getElementById('tooltip');
      cy.on('mouseover', 'node', function(ev) {
        const d = ev.target.data();
        tooltip.innerHTML = '<div class="type">' + d.type + '</div>' +
          '<div class="label">' + d.label + '</div>';
        tooltip.style.display = 'block';
      });
      cy.on('mouseout', 'node', function() {
        tooltip.style.display = 'none';
      });
      cy.on('mousemove', function(ev) {
        if (tooltip.style.display === 'block' && ev.originalEvent) {
          tooltip.style.left = (ev.originalEvent.pageX + 12) + 'px';
          tooltip.style.top = (ev.originalEvent.pageY + 12) + 'px';
        }
      });
    })();
  </script>
</body>
</html>`
