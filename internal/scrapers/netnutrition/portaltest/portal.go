// Package portaltest runs an in-process imitation of the dining portal. Like the real portal it
// keeps the selected unit in a cookie session: menu ids are only meaningful relative to the unit
// selected on the same cookie session, so a scraper that shares cookies between concurrent scrapes
// gets the wrong items back.
package portaltest

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const sessionCookie = "ASP.NET_SessionId"

const (
	PathRoot           = "/"
	PathPreferences    = "/Home/SetClientPreferences"
	PathSelectUnit     = "/Unit/SelectUnitFromUnitsList"
	PathSelectMenu     = "/Menu/SelectMenu"
	PathNutritionLabel = "/NutritionDetail/ShowItemNutritionLabel"
)

type Item struct {
	Name        string
	ServingSize string
	Allergens   []string
	DetailID    int
}

type Menu struct {
	ID    int
	Name  string
	Items []Item
}

type Day struct {
	Date  string
	Menus []Menu
}

type Unit struct {
	ID   int
	Days []Day
	// DivLayout renders the item panel with div rows instead of table rows.
	DivLayout bool
}

// Fault replaces the response of an endpoint. Drop closes the connection without responding.
type Fault struct {
	Status int
	Body   string
	Drop   bool
	// Units limits the fault to unit selections of these units, empty means every request.
	Units []int
}

type session struct {
	unit int
}

type Portal struct {
	Server *httptest.Server

	mu         sync.Mutex
	units      map[int]Unit
	labels     map[int]string
	overrides  map[int]string
	faults     map[string]Fault
	sessions   map[string]*session
	unitFields map[string]int
	userAgents map[string]int
	latency    time.Duration

	requests atomic.Int64
}

func New(units ...Unit) *Portal {
	p := &Portal{
		units:      map[int]Unit{},
		labels:     map[int]string{},
		overrides:  map[int]string{},
		faults:     map[string]Fault{},
		sessions:   map[string]*session{},
		unitFields: map[string]int{},
		userAgents: map[string]int{},
	}
	for _, u := range units {
		p.units[u.ID] = u
	}

	mux := http.NewServeMux()
	mux.HandleFunc(PathRoot, p.handleRoot)
	mux.HandleFunc(PathPreferences, p.handlePreferences)
	mux.HandleFunc(PathSelectUnit, p.handleSelectUnit)
	mux.HandleFunc(PathSelectMenu, p.handleSelectMenu)
	mux.HandleFunc(PathNutritionLabel, p.handleNutritionLabel)
	p.Server = httptest.NewServer(p.middleware(mux))
	return p
}

func (p *Portal) URL() string {
	return p.Server.URL
}

func (p *Portal) Close() {
	p.Server.Close()
}

// Requests returns the number of requests the portal has received.
func (p *Portal) Requests() int64 {
	return p.requests.Load()
}

// SetLabel sets the raw html returned for a nutrition detail id.
func (p *Portal) SetLabel(detailId int, document string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.labels[detailId] = document
}

// OverrideUnitResponse replaces the raw body returned when a unit is selected.
func (p *Portal) OverrideUnitResponse(unitId int, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overrides[unitId] = body
}

func (p *Portal) SetFault(path string, f Fault) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.faults[path] = f
}

func (p *Portal) ClearFaults() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.faults = map[string]Fault{}
}

// SetLatency delays every response, widening the window in which concurrent scrapes interleave.
func (p *Portal) SetLatency(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.latency = d
}

// UnitFieldsSeen returns how many unit selections used each form field name.
func (p *Portal) UnitFieldsSeen() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := map[string]int{}
	for k, v := range p.unitFields {
		out[k] = v
	}
	return out
}

// UserAgentsSeen returns the user agents that warmed up a session.
func (p *Portal) UserAgentsSeen() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := []string{}
	for k := range p.userAgents {
		out = append(out, k)
	}
	return out
}

func (p *Portal) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.requests.Add(1)

		p.mu.Lock()
		latency := p.latency
		fault, hasFault := p.faults[r.URL.Path]
		p.mu.Unlock()

		if latency > 0 {
			time.Sleep(latency)
		}

		if hasFault && p.faultApplies(fault, r) {
			if fault.Drop {
				hijacker, ok := w.(http.Hijacker)
				if ok {
					conn, _, err := hijacker.Hijack()
					if err == nil {
						conn.Close()
						return
					}
				}
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			status := fault.Status
			if status == 0 {
				status = http.StatusInternalServerError
			}
			w.WriteHeader(status)
			fmt.Fprint(w, fault.Body)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (p *Portal) faultApplies(f Fault, r *http.Request) bool {
	if len(f.Units) == 0 {
		return true
	}
	err := r.ParseForm()
	if err != nil {
		return false
	}
	unitId, _ := strconv.Atoi(unitFormValue(r))
	for _, u := range f.Units {
		if u == unitId {
			return true
		}
	}
	return false
}

func unitFormValue(r *http.Request) string {
	value := r.PostFormValue("unitOid")
	if value == "" {
		value = r.PostFormValue("UnitOid")
	}
	return value
}

func (p *Portal) session(r *http.Request) *session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sessions[cookie.Value]
}

func writeEnvelope(w http.ResponseWriter, success bool, panels map[string]string) {
	type panel struct {
		ID   string `json:"id"`
		Html string `json:"html"`
	}
	body := struct {
		Success bool    `json:"success"`
		Panels  []panel `json:"panels"`
	}{Success: success, Panels: []panel{}}
	for id, h := range panels {
		body.Panels = append(body.Panels, panel{ID: id, Html: h})
	}
	w.Header().Set("content-type", "application/json; charset=utf-8")
	json.NewEncoder(w).Encode(body)
}

func (p *Portal) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != PathRoot || r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	id := uuid.NewString()
	p.mu.Lock()
	p.sessions[id] = &session{}
	p.userAgents[r.UserAgent()]++
	p.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: id, Path: "/"})
	w.Header().Set("content-type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!DOCTYPE html><html><head><title>NetNutrition</title></head><body><div id="unitsPanel"></div></body></html>`)
}

func (p *Portal) handlePreferences(w http.ResponseWriter, r *http.Request) {
	if p.session(r) == nil {
		http.Error(w, "no session", http.StatusForbidden)
		return
	}
	writeEnvelope(w, true, nil)
}

func (p *Portal) handleSelectUnit(w http.ResponseWriter, r *http.Request) {
	s := p.session(r)
	if s == nil || r.Method != http.MethodPost {
		http.Error(w, "no session", http.StatusForbidden)
		return
	}
	err := r.ParseForm()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	field := "unitOid"
	value := r.PostFormValue(field)
	if value == "" {
		field = "UnitOid"
		value = r.PostFormValue(field)
	}
	unitId, err := strconv.Atoi(value)
	if err != nil {
		writeEnvelope(w, false, nil)
		return
	}

	p.mu.Lock()
	p.unitFields[field]++
	unit, ok := p.units[unitId]
	override, hasOverride := p.overrides[unitId]
	if ok {
		s.unit = unitId
	}
	p.mu.Unlock()

	if hasOverride {
		w.Header().Set("content-type", "application/json; charset=utf-8")
		fmt.Fprint(w, override)
		return
	}
	if !ok {
		writeEnvelope(w, false, nil)
		return
	}
	// a unit with nothing posted gets no menu panel at all
	if len(unit.Days) == 0 {
		writeEnvelope(w, true, nil)
		return
	}
	writeEnvelope(w, true, map[string]string{"menuPanel": RenderMenuPanel(unit.Days)})
}

func (p *Portal) handleSelectMenu(w http.ResponseWriter, r *http.Request) {
	s := p.session(r)
	if s == nil || r.Method != http.MethodPost {
		http.Error(w, "no session", http.StatusForbidden)
		return
	}
	menuId, err := strconv.Atoi(r.PostFormValue("menuOid"))
	if err != nil {
		writeEnvelope(w, false, nil)
		return
	}

	p.mu.Lock()
	unit, ok := p.units[s.unit]
	p.mu.Unlock()
	if !ok {
		writeEnvelope(w, false, nil)
		return
	}

	for _, day := range unit.Days {
		for _, menu := range day.Menus {
			if menu.ID != menuId {
				continue
			}
			panel := RenderItemTable(menu.Items)
			if unit.DivLayout {
				panel = RenderItemDivs(menu.Items)
			}
			writeEnvelope(w, true, map[string]string{"itemPanel": panel})
			return
		}
	}
	writeEnvelope(w, false, nil)
}

func (p *Portal) handleNutritionLabel(w http.ResponseWriter, r *http.Request) {
	if p.session(r) == nil || r.Method != http.MethodPost {
		http.Error(w, "no session", http.StatusForbidden)
		return
	}
	detailId, _ := strconv.Atoi(r.PostFormValue("detailOid"))

	p.mu.Lock()
	label, ok := p.labels[detailId]
	p.mu.Unlock()
	if !ok {
		writeEnvelope(w, false, nil)
		return
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	fmt.Fprint(w, label)
}

// RenderMenuPanel renders days the way the portal's card layout does.
func RenderMenuPanel(days []Day) string {
	var out strings.Builder
	out.WriteString(`<div class="card-deck">`)
	for _, day := range days {
		out.WriteString(`<section class="card mb-3"><header class="card-title h4 cbo_nn_menuPrimaryRow">`)
		out.WriteString(html.EscapeString(day.Date))
		out.WriteString(`</header><div class="card-block">`)
		for _, menu := range day.Menus {
			fmt.Fprintf(
				&out,
				`<div class="cbo_nn_menuLinkCell"><a href="#" class="cbo_nn_menuLink" onclick="javascript:menuListSelectMenu(%d);">%s</a></div>`,
				menu.ID, html.EscapeString(menu.Name),
			)
		}
		out.WriteString(`</div></section>`)
	}
	out.WriteString(`</div>`)
	return out.String()
}

func renderItemName(item Item, tag string) string {
	var out strings.Builder
	fmt.Fprintf(
		&out,
		`<%s class="cbo_nn_itemHover" id="showNutrition_%d" onclick="javascript:getItemNutritionLabel(%d);">%s`,
		tag, item.DetailID, item.DetailID, html.EscapeString(item.Name),
	)
	for _, a := range item.Allergens {
		fmt.Fprintf(&out, ` <img src="/Content/Images/Traits/%s.png" alt="%s" />`, html.EscapeString(a), html.EscapeString(a))
	}
	fmt.Fprintf(&out, `</%s>`, tag)
	return out.String()
}

// RenderItemTable renders items in the portal's primary table-row layout.
func RenderItemTable(items []Item) string {
	var out strings.Builder
	out.WriteString(`<table class="table cbo_nn_itemGridTable"><tbody>`)
	for i, item := range items {
		class := "cbo_nn_itemPrimaryRow"
		if i%2 == 1 {
			class = "cbo_nn_itemAlternateRow"
		}
		fmt.Fprintf(&out, `<tr class="%s">`, class)
		fmt.Fprintf(&out, `<td><input type="checkbox" class="cbo_nn_itemCheckBox" data-detailoid="%d" /></td>`, item.DetailID)
		fmt.Fprintf(&out, `<td class="cbo_nn_itemNameCell">%s</td>`, renderItemName(item, "a"))
		fmt.Fprintf(&out, `<td>%s</td>`, html.EscapeString(item.ServingSize))
		out.WriteString(`</tr>`)
	}
	out.WriteString(`</tbody></table>`)
	return out.String()
}

// RenderItemDivs renders items in the portal's alternate div-row layout.
func RenderItemDivs(items []Item) string {
	var out strings.Builder
	out.WriteString(`<div class="cbo_nn_itemGrid">`)
	for _, item := range items {
		out.WriteString(`<div class="cbo_nn_itemRow">`)
		out.WriteString(renderItemName(item, "span"))
		fmt.Fprintf(&out, `<span class="cbo_nn_itemServingSize">%s</span>`, html.EscapeString(item.ServingSize))
		out.WriteString(`</div>`)
	}
	out.WriteString(`</div>`)
	return out.String()
}

// RenderLabel renders a minimal nutrition label document.
func RenderLabel(servingSize string, calories, fat, sodium int, ingredients string) string {
	return fmt.Sprintf(`<!DOCTYPE html><html><body><table class="cbo_nn_NutritionLabelTable">
<tr><td class="cbo_nn_LabelHeader">Nutrition Facts</td></tr>
<tr><td class="cbo_nn_LabelServingSize">Serving Size %s</td></tr>
<tr><td><span class="cbo_nn_LabelDetail">Calories</span>&nbsp;<span>%d</span></td></tr>
<tr><td><span class="cbo_nn_LabelDetail">Total Fat</span>&nbsp;<span>%dg</span></td></tr>
<tr><td><span class="cbo_nn_LabelDetail">Sodium</span>&nbsp;<span>%dmg</span></td></tr>
</table><div class="cbo_nn_LabelIngredients">Ingredients: %s</div></body></html>`,
		html.EscapeString(servingSize), calories, fat, sodium, html.EscapeString(ingredients))
}
