package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/go-playground/validator/v10"
)

// MaxUISlots caps the number of candidates a caller may ask for.
const MaxUISlots = 50

// RawTransitionRequest is the body of POST /v1/transitions/next as it arrives.
// Numeric and list fields stay untyped until Normalize coerces them.
type RawTransitionRequest struct {
	SessionID         string `json:"session_id"`
	OriginNodeID      any    `json:"origin_node_id"`
	RouteWindow       any    `json:"route_window"`
	LimitState        string `json:"limit_state"`
	Mode              string `json:"mode"`
	UISlots           any    `json:"ui_slots"`
	PremiumLevel      string `json:"premium_level"`
	PoliciesHash      string `json:"policies_hash"`
	ProviderOverrides any    `json:"requested_provider_overrides"`
	Emergency         bool   `json:"emergency"`
}

// TransitionRequest is a coerced and validated transition request.
type TransitionRequest struct {
	SessionID         string   `json:"session_id" validate:"required,max=256"`
	UserID            string   `json:"-"`
	OriginNodeID      *int64   `json:"origin_node_id" validate:"omitempty,gt=0"`
	RouteWindow       []int64  `json:"route_window" validate:"max=256,dive,gt=0"`
	LimitState        string   `json:"limit_state" validate:"max=64"`
	Mode              string   `json:"mode" validate:"max=64"`
	UISlots           int      `json:"ui_slots" validate:"gte=0,lte=50"`
	PremiumLevel      string   `json:"premium_level" validate:"max=64"`
	PoliciesHash      string   `json:"policies_hash" validate:"max=256"`
	ProviderOverrides []string `json:"requested_provider_overrides" validate:"max=8,dive,max=32"`
	Emergency         bool     `json:"emergency"`
}

// Params converts the request into engine context parameters.
func (r TransitionRequest) Params() domain.ContextParams {
	return domain.ContextParams{
		SessionID:         r.SessionID,
		UserID:            r.UserID,
		OriginNodeID:      r.OriginNodeID,
		RouteWindow:       r.RouteWindow,
		LimitState:        r.LimitState,
		PremiumLevel:      r.PremiumLevel,
		Mode:              r.Mode,
		RequestedUISlots:  r.UISlots,
		PoliciesHash:      r.PoliciesHash,
		ProviderOverrides: r.ProviderOverrides,
		Emergency:         r.Emergency,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldCodes maps request fields to their dedicated error code.
var fieldCodes = map[string]string{
	"session_id":                   CodeSessionIDRequired,
	"route_window":                 CodeRouteWindowInvalid,
	"origin_node_id":               CodeOriginNodeIDInvalid,
	"ui_slots":                     CodeUISlotsInvalid,
	"requested_provider_overrides": CodeProviderOverridesInvalid,
}

// DecodeTransitionRequest reads a JSON body and normalizes it for userID.
func DecodeTransitionRequest(body io.Reader, userID string) (TransitionRequest, error) {
	var raw RawTransitionRequest
	dec := json.NewDecoder(body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return TransitionRequest{}, requestErrorf(CodeFieldInvalid, "%s must be a %s", typeErr.Field, typeErr.Type)
		}
		return TransitionRequest{}, requestErrorf(CodeInvalidBody, "request body is not a JSON object: %v", err)
	}
	return raw.Normalize(userID)
}

// Normalize coerces the untyped fields and validates the result.
// Whole JSON numbers and decimal strings are accepted as node ids; anything else is rejected.
func (raw RawTransitionRequest) Normalize(userID string) (TransitionRequest, error) {
	req := TransitionRequest{
		SessionID:    strings.TrimSpace(raw.SessionID),
		UserID:       userID,
		LimitState:   raw.LimitState,
		Mode:         raw.Mode,
		PremiumLevel: raw.PremiumLevel,
		PoliciesHash: raw.PoliciesHash,
		Emergency:    raw.Emergency,
	}
	if req.SessionID == "" {
		return req, requestErrorf(CodeSessionIDRequired, "session_id is required")
	}

	if raw.OriginNodeID != nil {
		id, ok := coerceInt(raw.OriginNodeID)
		if !ok {
			return req, requestErrorf(CodeOriginNodeIDInvalid, "origin_node_id must be an integer, got %v", raw.OriginNodeID)
		}
		req.OriginNodeID = &id
	}

	window, err := coerceRouteWindow(raw.RouteWindow)
	if err != nil {
		return req, err
	}
	req.RouteWindow = window

	if raw.UISlots != nil {
		n, ok := coerceInt(raw.UISlots)
		if !ok {
			return req, requestErrorf(CodeUISlotsInvalid, "ui_slots must be an integer, got %v", raw.UISlots)
		}
		if n < 0 || n > MaxUISlots {
			return req, requestErrorf(CodeUISlotsInvalid, "ui_slots must be within [0, %d]", MaxUISlots)
		}
		req.UISlots = int(n)
	}

	overrides, err := coerceOverrides(raw.ProviderOverrides)
	if err != nil {
		return req, err
	}
	req.ProviderOverrides = overrides

	if err := validate.Struct(req); err != nil {
		return req, validationError(err)
	}
	return req, nil
}

func coerceRouteWindow(v any) ([]int64, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, requestErrorf(CodeRouteWindowInvalid, "route_window must be a list of node ids")
	}
	out := make([]int64, 0, len(items))
	for i, item := range items {
		id, ok := coerceInt(item)
		if !ok {
			return nil, requestErrorf(CodeRouteWindowInvalid, "route_window[%d] = %v is not an integer", i, item)
		}
		out = append(out, id)
	}
	return out, nil
}

func coerceOverrides(v any) ([]string, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []string:
		return list, nil
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, requestErrorf(CodeProviderOverridesInvalid, "requested_provider_overrides[%d] must be a string", i)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, requestErrorf(CodeProviderOverridesInvalid, "requested_provider_overrides must be a list of provider names")
	}
}

// coerceInt accepts whole numbers and base-10 integer strings.
func coerceInt(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return wholeFloat(f)
	case float64:
		return wholeFloat(n)
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}

func wholeFloat(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int64(f), true
}

func validationError(err error) *RequestError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return requestErrorf(CodeFieldInvalid, "%v", err)
	}
	fe := verrs[0]
	field, _, _ := strings.Cut(fe.Field(), "[")
	code, ok := fieldCodes[field]
	if !ok {
		code = CodeFieldInvalid
	}
	return &RequestError{Code: code, Message: fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())}
}
