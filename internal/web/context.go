package web

import "net/http"

// RequestContext carries the HTMX headers a handler needs to decide
// between a fragment and a redirect.
type RequestContext struct {
	IsHTMX    bool   // HX-Request header present
	TriggerID string // HX-Trigger - element that initiated this
	TargetID  string // HX-Target - where response will land
	Boosted   bool   // HX-Boosted
}

func parseRequestContext(r *http.Request) RequestContext {
	return RequestContext{
		IsHTMX:    r.Header.Get("HX-Request") == "true",
		TriggerID: r.Header.Get("HX-Trigger"),
		TargetID:  r.Header.Get("HX-Target"),
		Boosted:   r.Header.Get("HX-Boosted") == "true",
	}
}

// WantsFragment reports whether the response should be the screen fragment
// rather than a redirect back to the full page.
func (c RequestContext) WantsFragment() bool {
	return c.IsHTMX && !c.Boosted
}
