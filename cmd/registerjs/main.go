//go:build js

// Command registerjs is the browser bundle for the registration page, built
// with GopherJS and served from STATIC_DIR as register.js.
package main

import (
	"honnef.co/go/js/dom"

	"mangiato/internal/register"
)

var document = dom.GetWindow().Document()

// pageFields reads input values live from the document
type pageFields struct{}

func (pageFields) Value(id string) string {
	if in, ok := document.GetElementByID(id).(*dom.HTMLInputElement); ok {
		return in.Value
	}
	return ""
}

type elementDisplay struct {
	el dom.HTMLElement
}

func (d elementDisplay) SetText(text string) { d.el.SetTextContent(text) }

func (d elementDisplay) Show() {
	d.el.RemoveAttribute("hidden")
	d.el.Style().RemoveProperty("display")
}

type domForm struct {
	el dom.Element
}

func (f domForm) OnSubmit(fn func(register.Event)) {
	f.el.AddEventListener("submit", false, func(ev dom.Event) {
		fn(ev)
	})
}

func mount() {
	configured := document.QuerySelector("form[" + register.AttrEndpoint + "]")
	if configured == nil {
		return
	}
	display, ok := document.GetElementByID(register.DisplayID).(dom.HTMLElement)
	if !ok {
		return
	}

	cfg := register.ConfigFromAttributes(configured.GetAttribute)
	client := register.NewClient(cfg, register.XHRTransport{}, nil)
	handler := register.NewFormSubmitHandler(cfg, pageFields{}, client, elementDisplay{el: display}, nil)

	var forms []register.Form
	for _, el := range document.QuerySelectorAll("form") {
		forms = append(forms, domForm{el: el})
	}
	register.Mount(forms, handler)
}

func main() {
	// The bundle is loaded with defer, so DOMContentLoaded has not fired yet
	document.AddEventListener("DOMContentLoaded", false, func(dom.Event) {
		mount()
	})
}
