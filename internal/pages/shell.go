package pages

import (
	"cadence/internal/player"
	"cadence/internal/router"
	"cadence/internal/theme"
	"cadence/internal/view"
)

// ShellData is everything the full page needs besides the main content.
type ShellData struct {
	Nav     []router.NavItem
	Content *view.Node
	Player  player.Surface
	Theme   theme.Theme
	Style   string
}

// Shell renders the full document: sidebar, main content and player bar.
func Shell(d ShellData) *view.Node {
	head := view.Container("head",
		view.Container("meta").WithAttr("charset", "utf-8"),
		view.Container("meta").WithAttr("name", "viewport").WithAttr("content", "width=device-width, initial-scale=1"),
		view.Container("title").WithText("Cadence"),
		view.Container("link").WithAttr("rel", "stylesheet").WithAttr("href", "/static/css/styles.css"),
		view.Container("style").WithID("theme-vars").WithText(d.Style),
	)

	body := view.Container("body",
		view.Container("div",
			sidebar(d.Nav, d.Theme),
			view.Container("main", d.Content).WithID("main-content"),
		).WithClass("layout"),
		playerBar(d.Player),
		view.Container("script").WithAttr("src", "/static/js/app.js").WithAttr("defer", ""),
	).WithData("theme", string(d.Theme))

	return view.Container("html", head, body).WithAttr("lang", "en")
}

func sidebar(nav []router.NavItem, t theme.Theme) *view.Node {
	items := make([]*view.Node, 0, len(nav))
	for _, item := range nav {
		items = append(items, view.NavItem(item.Key, item.Label, item.Active).On(view.Action{
			URL:    "/view/" + item.Key,
			Target: MainContent,
		}))
	}

	themeBtn := view.Button(t.Glyph()).WithID("theme-btn").WithClass("theme-btn").On(view.Action{
		Method: "POST",
		URL:    "/api/theme/toggle",
	})

	return view.Container("aside",
		view.Container("h1").WithClass("logo").WithText("Cadence"),
		view.Nav(items...),
		themeBtn,
	).WithID("sidebar")
}

func playerBar(s player.Surface) *view.Node {
	control := func(id, glyph, url string) *view.Node {
		return view.Button(glyph).WithID(id).WithClass("control-btn").On(view.Action{
			Method: "POST",
			URL:    url,
		})
	}

	return view.Container("footer",
		view.EagerImage(s.Cover, "Now playing").WithID("player-cover"),
		view.Container("div",
			view.Container("div").WithID("player-title").WithText(s.Title),
			view.Container("div").WithID("player-artist").WithText(s.Artist),
		).WithClass("player-info"),
		view.Container("div",
			control("prev-btn", "⏮️", "/api/player/previous"),
			control("play-btn", s.Icon, "/api/player/toggle"),
			control("next-btn", "⏭️", "/api/player/next"),
		).WithClass("player-controls"),
		view.Slider("progress", 0, 100, s.Progress).On(view.Action{
			Method:  "POST",
			URL:     "/api/player/progress",
			Trigger: view.TriggerInput,
		}),
		view.Slider("volume", 0, 100, s.Volume).On(view.Action{
			Method:  "POST",
			URL:     "/api/player/volume",
			Trigger: view.TriggerInput,
		}),
	).WithID("player")
}
