package handler

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"evaluation/internal/service"
)

const maxBodyBytes = 1 << 20

// reviewerFields reads name, skill_score, experience_score and hire from a
// JSON or form encoded body. Numbers and numeric strings are both accepted.
func reviewerFields(w http.ResponseWriter, r *http.Request) (map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: malformed JSON body: %w", service.ErrValidation, err)
		}
		fields := make(map[string]string, len(raw))
		for k, v := range raw {
			switch val := v.(type) {
			case nil:
				fields[k] = ""
			case string:
				fields[k] = val
			case float64:
				fields[k] = strconv.FormatFloat(val, 'f', -1, 64)
			default:
				return nil, fmt.Errorf("%w: %s must be a number or string", service.ErrValidation, k)
			}
		}
		return fields, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: malformed form body: %w", service.ErrValidation, err)
	}
	fields := make(map[string]string)
	for _, k := range []string{"name", "skill_score", "experience_score", "hire"} {
		fields[k] = r.PostForm.Get(k)
	}
	return fields, nil
}

func reviewerInput(fields map[string]string) (service.ReviewerInput, error) {
	in := service.ReviewerInput{Name: strings.TrimSpace(fields["name"])}
	var err error
	if in.SkillScore, err = optionalInt(fields, "skill_score"); err != nil {
		return in, err
	}
	if in.ExperienceScore, err = optionalInt(fields, "experience_score"); err != nil {
		return in, err
	}
	if in.Hire, err = optionalInt(fields, "hire"); err != nil {
		return in, err
	}
	return in, nil
}

func optionalInt(fields map[string]string, key string) (*int, error) {
	s := strings.TrimSpace(fields[key])
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", service.ErrValidation, key)
	}
	return &v, nil
}

// sortCriteria reads sort_column and asc; absent values fall back to column 0 ascending.
func sortCriteria(r *http.Request) (service.SortCriteria, error) {
	sort := service.DefaultSort()
	q := r.URL.Query()

	if s := q.Get("sort_column"); s != "" {
		col, err := strconv.Atoi(s)
		if err != nil {
			return sort, fmt.Errorf("%w: sort_column must be an integer", service.ErrValidation)
		}
		sort.Column = col
	}
	if s := q.Get("asc"); s != "" {
		asc, err := strconv.ParseBool(s)
		if err != nil {
			return sort, fmt.Errorf("%w: asc must be true or false", service.ErrValidation)
		}
		sort.Asc = asc
	}
	return sort, nil
}
