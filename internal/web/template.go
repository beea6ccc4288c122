package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/nightfall-candle/internal/render"
	"github.com/sweeney/nightfall-candle/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"clock": render.FormatClock,
	"percent": func(f float64) string {
		return fmt.Sprintf("%.0f%%", f*100)
	},
	"phaseOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Nightfall Candle</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; background: #0b0a10; color: #e8e0d0; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #333; }
th { width: 40%; }
.RUNNING { color: #ffb347; font-weight: bold; }
.PAUSED { color: #9d7bd8; }
.COMPLETED { color: #888; }
.IDLE, .UNKNOWN { color: orange; }
.connected { color: #5dd9c1; }
.disconnected { color: #ff6b35; }
.message { font-style: italic; }
</style>
</head>
<body>
<h1>Nightfall Candle</h1>

<h2>Timer</h2>
<table>
<tr><th>Variant</th><td>{{.Timer.Variant}}</td></tr>
<tr><th>Phase</th><td class="{{phaseOrUnknown (printf "%s" .Timer.Phase)}}">{{phaseOrUnknown (printf "%s" .Timer.Phase)}}</td></tr>
<tr><th>Remaining</th><td>{{clock .Timer.Remaining}} of {{clock .Timer.Duration}}</td></tr>
<tr><th>Wax left</th><td>{{percent .Timer.Fraction}}</td></tr>
<tr><th>Particles</th><td>{{.Timer.Particles}} live, {{.Timer.Spawned}} spawned</td></tr>
<tr><th>Sound</th><td>{{if .Muted}}muted{{else}}on{{end}}</td></tr>
{{if .Timer.Message}}<tr><th>Message</th><td class="message">{{.Timer.Message}}</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}: {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Started</th><td>{{.Timer.Counts.Started}}</td></tr>
<tr><th>Paused</th><td>{{.Timer.Counts.Paused}}</td></tr>
<tr><th>Reset</th><td>{{.Timer.Counts.Reset}}</td></tr>
<tr><th>Completed</th><td>{{.Timer.Counts.Completed}}</td></tr>
</table>
{{if .Config.GPIO}}
<h2>Buttons</h2>
<table>
<tr><th>Start</th><td>{{.Buttons.Start}}</td></tr>
<tr><th>Pause</th><td>{{.Buttons.Pause}}</td></tr>
<tr><th>Reset</th><td>{{.Buttons.Reset}}</td></tr>
</table>
{{end}}
<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
{{if .Config.GPIO}}<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms</td></tr>{{end}}
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
