package graph

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the serializable hand-off to rendering collaborators: the
// visible graph in sorted order, its layout hints and the selection.
type Document struct {
	Display DisplayConfig `json:"display" yaml:"display"`
	Filter  FilterState   `json:"filter" yaml:"filter"`
	Focus   string        `json:"focus,omitempty" yaml:"focus,omitempty"`
	Stats   Stats         `json:"stats" yaml:"stats"`
	Nodes   []*Node       `json:"nodes" yaml:"nodes"`
	Links   []*Link       `json:"links" yaml:"links"`
	Layout  *Layout       `json:"layout,omitempty" yaml:"layout,omitempty"`
	Focused *Summary      `json:"focused,omitempty" yaml:"focused,omitempty"`
}

// NewDocument assembles a document from a view and its layout.
func NewDocument(view *View, display DisplayConfig, filter FilterState, layout *Layout) *Document {
	d := &Document{
		Display: display,
		Filter:  filter,
		Focus:   view.Focus,
		Stats:   view.Graph.GetStats(),
		Nodes:   view.Graph.SortedNodes(),
		Links:   view.Graph.SortedLinks(),
		Layout:  layout,
	}
	if n, ok := view.Graph.Nodes[view.Focus]; ok {
		s := Summarize(n)
		d.Focused = &s
	}
	return d
}

// ExportJSON returns the document as pretty-printed JSON.
func (d *Document) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// ExportYAML returns the document as YAML.
func (d *Document) ExportYAML() ([]byte, error) {
	return yaml.Marshal(d)
}

// ExportDOT returns the visible graph in Graphviz DOT format, one rank per
// entity type.
func (d *Document) ExportDOT() string {
	var b strings.Builder
	b.WriteString("digraph trade_graph {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white];\n\n")

	for _, t := range EntityTypes {
		var ids []string
		for _, n := range d.Nodes {
			if n.Type != t {
				continue
			}
			label := fmt.Sprintf("%s\\n(%s, %d tx)", n.Name, n.Type, n.Transactions)
			attrs := fmt.Sprintf("label=%q, fillcolor=%q", label, TypeColors[n.Type])
			if n.ID == d.Focus {
				attrs += ", penwidth=3, color=\"#f03b20\""
			}
			b.WriteString(fmt.Sprintf("  %q [%s];\n", n.ID, attrs))
			ids = append(ids, fmt.Sprintf("%q", n.ID))
		}
		if len(ids) > 0 {
			b.WriteString(fmt.Sprintf("  { rank=same; %s; }\n", strings.Join(ids, "; ")))
		}
	}

	b.WriteString("\n")
	for _, l := range d.Links {
		b.WriteString(fmt.Sprintf("  %q -> %q [label=\"%d\"];\n", l.Source, l.Target, l.Transactions))
	}

	b.WriteString("}\n")
	return b.String()
}

// ExportHTML returns a self-contained page that runs a force simulation
// seeded with the document's layout hints.
func (d *Document) ExportHTML() (string, error) {
	type jsNode struct {
		*Node
		Hint    NodeHint `json:"hint"`
		Tooltip string   `json:"tooltip"`
	}
	type jsLink struct {
		*Link
		Hint LinkHint `json:"hint"`
	}

	layout := d.Layout
	if layout == nil {
		layout = &Layout{Width: 1200, Height: 800, Charge: ChargeStrength, LinkDistance: LinkDistance}
	}

	nodes := make([]jsNode, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		nodes = append(nodes, jsNode{Node: n, Hint: layout.Nodes[n.ID], Tooltip: Summarize(n).String()})
	}
	links := make([]jsLink, 0, len(d.Links))
	for _, l := range d.Links {
		links = append(links, jsLink{Link: l, Hint: layout.Links[l.ID]})
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return "", fmt.Errorf("encode nodes: %w", err)
	}
	linksJSON, err := json.Marshal(links)
	if err != nil {
		return "", fmt.Errorf("encode links: %w", err)
	}
	forcesJSON, err := json.Marshal(map[string]float64{
		"width":        layout.Width,
		"height":       layout.Height,
		"charge":       layout.Charge,
		"linkDistance": layout.LinkDistance,
	})
	if err != nil {
		return "", fmt.Errorf("encode forces: %w", err)
	}

	var b strings.Builder
	err = htmlPage.Execute(&b, map[string]any{
		"Title":  "trade graph · " + d.Display.String(),
		"Nodes":  template.JS(nodesJSON),
		"Links":  template.JS(linksJSON),
		"Forces": template.JS(forcesJSON),
		"Colors": TypeColors,
	})
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return b.String(), nil
}

var htmlPage = template.Must(template.New("graph").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<style>
*{margin:0;padding:0;box-sizing:border-box}
body{background:#f8fafc;color:#1f2937;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',sans-serif;overflow:hidden}
canvas{display:block}
#info{position:fixed;top:16px;left:16px;z-index:10;background:rgba(255,255,255,0.95);border:1px solid #e5e7eb;border-radius:10px;padding:14px 18px;font-size:13px;min-width:200px}
#info h2{font-size:15px;margin-bottom:6px}
.stat{color:#6b7280;margin:2px 0}
.stat b{color:#111827}
#tooltip{position:fixed;z-index:20;pointer-events:none;display:none;white-space:pre;background:#fff;border:1px solid #d1d5db;border-radius:8px;padding:10px 14px;font-size:12px;max-width:360px}
#search-box{position:fixed;top:16px;right:16px;z-index:10;border:1px solid #d1d5db;border-radius:8px;padding:8px 14px;font-size:13px;outline:none;width:220px}
#legend{position:fixed;bottom:16px;left:16px;z-index:10;background:rgba(255,255,255,0.95);border:1px solid #e5e7eb;border-radius:10px;padding:10px 14px;font-size:11px}
.leg-row{margin:3px 0;display:flex;align-items:center;gap:8px}
.dot{width:10px;height:10px;border-radius:50%;display:inline-block}
</style>
</head>
<body>
<div id="info">
  <h2>{{.Title}}</h2>
  <div class="stat"><b id="n-nodes">0</b> nodes</div>
  <div class="stat"><b id="n-links">0</b> links</div>
</div>
<input id="search-box" type="text" placeholder="Highlight entities...">
<div id="tooltip"></div>
<div id="legend">
{{range $type, $color := .Colors}}  <div class="leg-row"><span class="dot" style="background:{{$color}}"></span>{{$type}}</div>
{{end}}</div>
<canvas id="canvas"></canvas>
<script>
"use strict";
const NODES={{.Nodes}};
const LINKS={{.Links}};
const FORCES={{.Forces}};
document.getElementById('n-nodes').textContent=NODES.length;
document.getElementById('n-links').textContent=LINKS.length;

const canvas=document.getElementById('canvas');
const ctx=canvas.getContext('2d');
let W,H;
function resize(){W=canvas.width=window.innerWidth;H=canvas.height=window.innerHeight}
resize();
window.addEventListener('resize',resize);

const nodes=NODES.map(n=>({...n,x:n.hint.x,y:n.hint.y,vx:0,vy:0,mark:false}));
const byId=Object.fromEntries(nodes.map(n=>[n.id,n]));
const links=LINKS.map(l=>({...l,s:byId[l.source],t:byId[l.target]})).filter(l=>l.s&&l.t);

let camera={x:FORCES.width/2,y:FORCES.height/2,zoom:1},drag=null,hovered=null,alpha=1;

function tick(){
  alpha=Math.max(alpha*0.995,0.02);
  for(let i=0;i<nodes.length;i++){
    const a=nodes[i];
    a.vx+=(a.hint.targetX-a.x)*a.hint.strengthX*alpha;
    a.vy+=(a.hint.targetY-a.y)*a.hint.strengthY*alpha;
    for(let j=i+1;j<nodes.length;j++){
      const b=nodes[j];
      let dx=b.x-a.x,dy=b.y-a.y,d2=dx*dx+dy*dy;if(d2<1)d2=1;
      const f=FORCES.charge*alpha/d2;
      a.vx+=dx*f;a.vy+=dy*f;b.vx-=dx*f;b.vy-=dy*f;
      const d=Math.sqrt(d2),min=a.hint.collisionRadius+b.hint.collisionRadius;
      if(d<min){const push=(min-d)/d*0.5;a.x-=dx*push;a.y-=dy*push;b.x+=dx*push;b.y+=dy*push}
    }
  }
  for(const l of links){
    let dx=l.t.x-l.s.x,dy=l.t.y-l.s.y,d=Math.sqrt(dx*dx+dy*dy)||1;
    const f=(d-FORCES.linkDistance)/d*0.05*alpha;
    l.s.vx+=dx*f;l.s.vy+=dy*f;l.t.vx-=dx*f;l.t.vy-=dy*f;
  }
  for(const n of nodes){
    if(n===drag)continue;
    n.vx*=0.6;n.vy*=0.6;n.x+=n.vx;n.y+=n.vy;
  }
}

function toScreen(x,y){return[(x-camera.x)*camera.zoom+W/2,(y-camera.y)*camera.zoom+H/2]}
function toWorld(px,py){return[(px-W/2)/camera.zoom+camera.x,(py-H/2)/camera.zoom+camera.y]}
function opacity(h){return h==='dimmed'?0.3:(h==='neighbor'?0.8:1)}

function draw(){
  ctx.clearRect(0,0,W,H);
  for(const l of links){
    const[ax,ay]=toScreen(l.s.x,l.s.y),[bx,by]=toScreen(l.t.x,l.t.y);
    const hl=l.hint.highlight||(hovered&&(l.s===hovered||l.t===hovered));
    const dx=bx-ax,dy=by-ay;
    ctx.beginPath();ctx.moveTo(ax,ay);
    ctx.quadraticCurveTo((ax+bx)/2-dy*0.15,(ay+by)/2+dx*0.15,bx,by);
    ctx.strokeStyle=hl?'rgba(240,59,32,0.9)':'rgba(153,153,153,0.6)';
    ctx.lineWidth=l.hint.width*camera.zoom;ctx.stroke();
    ctx.font='9px sans-serif';ctx.fillStyle='#6b7280';ctx.textAlign='center';
    ctx.fillText(String(l.transactions),(ax+bx)/2,(ay+by)/2-5);
  }
  for(const n of nodes){
    const[px,py]=toScreen(n.x,n.y);
    const r=n.hint.radius*camera.zoom;
    ctx.globalAlpha=opacity(n.hint.highlight);
    ctx.beginPath();ctx.arc(px,py,r,0,Math.PI*2);
    ctx.fillStyle=n.hint.color;ctx.fill();
    const focused=n.hint.highlight==='focused'||n.mark||n===hovered;
    ctx.strokeStyle=focused?'#f03b20':'#fff';ctx.lineWidth=focused?3:1.5;ctx.stroke();
    ctx.font=(focused?'bold 12px':'10px')+' sans-serif';ctx.fillStyle='#111827';ctx.textAlign='left';
    const label=n.name.length>15?n.name.slice(0,12)+'...':n.name;
    ctx.fillText(label,px+r+5,py+3);
    ctx.globalAlpha=1;
  }
}

function findNode(px,py){
  const[wx,wy]=toWorld(px,py);
  for(let i=nodes.length-1;i>=0;i--){
    const n=nodes[i],dx=n.x-wx,dy=n.y-wy,r=n.hint.radius+4;
    if(dx*dx+dy*dy<r*r)return n;
  }
  return null;
}

canvas.addEventListener('mousedown',e=>{
  const n=findNode(e.clientX,e.clientY);
  if(n){drag=n;alpha=Math.max(alpha,0.3)}
  else{drag={pan:true,px:e.clientX,py:e.clientY,cx:camera.x,cy:camera.y}}
});
canvas.addEventListener('mousemove',e=>{
  if(drag&&drag.pan){
    camera.x=drag.cx-(e.clientX-drag.px)/camera.zoom;
    camera.y=drag.cy-(e.clientY-drag.py)/camera.zoom;
  }else if(drag){
    const[wx,wy]=toWorld(e.clientX,e.clientY);drag.x=wx;drag.y=wy;
  }
  hovered=findNode(e.clientX,e.clientY);
  const tt=document.getElementById('tooltip');
  if(hovered){
    tt.textContent=hovered.tooltip;
    tt.style.display='block';tt.style.left=(e.clientX+16)+'px';tt.style.top=(e.clientY+16)+'px';
  }else{tt.style.display='none'}
});
canvas.addEventListener('mouseup',()=>{drag=null});
canvas.addEventListener('wheel',e=>{
  e.preventDefault();
  camera.zoom=Math.max(0.1,Math.min(4,camera.zoom*(e.deltaY>0?0.9:1.1)));
},{passive:false});

document.getElementById('search-box').addEventListener('input',function(){
  const q=this.value.trim().toLowerCase();
  for(const n of nodes){
    n.mark=!!q&&(n.name.toLowerCase().includes(q)||n.originalNames.some(o=>o.toLowerCase().includes(q)));
  }
});

(function loop(){tick();draw();requestAnimationFrame(loop)})();
</script>
</body>
</html>
`))
