// Package editor is the view-bound record editor: it loads a reviewer
// collection, renders it, takes form input, submits new rows and shows the
// panel average.
//
// All view state lives in a ViewModel value. Reducers take a ViewModel and
// return the next one; Editor runs the requests and feeds the reducers.
package editor

import (
	"fmt"
	"strconv"
	"strings"

	"evaluation/internal/client"
	"evaluation/internal/model"
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// DetailView is the route name of a single reviewer's row.
const DetailView = "reviewer"

// Route is a navigation target keyed by the reviewer name.
type Route struct {
	View string
	Name string
}

// Form is the bound input of the add action.
type Form struct {
	Reviewer   string
	Skill      int
	Experience int
	Hire       string
}

// HireFromInput maps the hire field onto the wire value: exactly "no" is a
// rejection, anything else (including "No" or "") is a hire.
func HireFromInput(s string) int {
	if s == "no" {
		return model.HireNo
	}
	return model.HireYes
}

// Record builds the row the add action writes.
func (f Form) Record() model.Record {
	return model.Record{
		Name:            f.Reviewer,
		SkillScore:      f.Skill,
		ExperienceScore: f.Experience,
		Hire:            HireFromInput(f.Hire),
	}
}

// ParseForm reads raw text fields. Empty scores count as 0. Hire is kept
// exactly as typed so only a literal "no" rejects.
func ParseForm(reviewer, skill, experience, hire string) (Form, error) {
	f := Form{Reviewer: strings.TrimSpace(reviewer), Hire: hire}
	var err error
	if f.Skill, err = atoiOrZero(skill); err != nil {
		return f, fmt.Errorf("skill: %w", err)
	}
	if f.Experience, err = atoiOrZero(experience); err != nil {
		return f, fmt.Errorf("experience: %w", err)
	}
	return f, nil
}

func atoiOrZero(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

type ViewModel struct {
	Resource client.Resource
	// Sort is nil when the server's default order applies.
	Sort    *client.Sort
	Records []model.Record
	Average *model.AverageSummary
	Form    Form
	Route   *Route
	Status  Status
	Err     error
}

func NewViewModel(res client.Resource, sort *client.Sort) ViewModel {
	return ViewModel{Resource: res, Sort: sort, Status: StatusIdle}
}

// Loading marks a request in flight.
func Loading(vm ViewModel) ViewModel {
	vm.Status = StatusLoading
	return vm
}

// Loaded replaces the collection with records in the order received. On
// failure the previous collection stays and the error is shown.
func Loaded(vm ViewModel, records []model.Record, err error) ViewModel {
	if err != nil {
		return failed(vm, err)
	}
	vm.Records = append([]model.Record(nil), records...)
	vm.Status = StatusReady
	vm.Err = nil
	return vm
}

// Open navigates to the detail view of rec. It never touches the network.
func Open(vm ViewModel, rec model.Record) ViewModel {
	vm.Route = &Route{View: DetailView, Name: rec.Name}
	return vm
}

// Close returns from the detail view to the collection.
func Close(vm ViewModel) ViewModel {
	vm.Route = nil
	return vm
}

// Submitted folds in the result of the add write. A successful write leaves
// the view loading until the collection is fetched again.
func Submitted(vm ViewModel, err error) ViewModel {
	if err != nil {
		return failed(vm, err)
	}
	vm.Status = StatusLoading
	vm.Err = nil
	return vm
}

// Averaged stores the summary and nothing else.
func Averaged(vm ViewModel, avg model.AverageSummary, err error) ViewModel {
	if err != nil {
		return failed(vm, err)
	}
	vm.Average = &avg
	return vm
}

// WithSort changes the ordering used by the next load.
func WithSort(vm ViewModel, sort *client.Sort) ViewModel {
	vm.Sort = sort
	return vm
}

func failed(vm ViewModel, err error) ViewModel {
	vm.Status = StatusFailed
	vm.Err = err
	return vm
}

// Selected returns the detail view's record when one is open and still loaded.
func (vm ViewModel) Selected() (model.Record, bool) {
	if vm.Route == nil || vm.Route.View != DetailView {
		return model.Record{}, false
	}
	for _, rec := range vm.Records {
		if rec.Name == vm.Route.Name {
			return rec, true
		}
	}
	return model.Record{}, false
}
