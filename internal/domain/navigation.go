package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Screen names a destination in the mobile app's navigation stack.
type Screen string

const (
	ScreenHome           Screen = "Home"
	ScreenSkinAnalysis   Screen = "SkinAnalysis"
	ScreenResults        Screen = "Results"
	ScreenProductDetail  Screen = "ProductDetail"
	ScreenSkinTypeScreen Screen = "SkinTypeScreen"
)

// Screens lists every destination in stack order.
var Screens = []Screen{
	ScreenHome,
	ScreenSkinAnalysis,
	ScreenResults,
	ScreenProductDetail,
	ScreenSkinTypeScreen,
}

// RouteParams is implemented by the parameter payload of each screen.
type RouteParams interface {
	screen() Screen
	validate() error
}

// NoParams is the payload of Home and SkinAnalysis.
type NoParams struct{}

// ResultsParams only admits the closed skin type enumeration.
type ResultsParams struct {
	SkinType SkinType `json:"skinType"`
}

type ProductDetailParams struct {
	Product Product `json:"product"`
}

// SkinTypeScreenParams keeps skinType as free text; any string, the empty
// one included, is accepted and it is not checked against SkinType.
type SkinTypeScreenParams struct {
	SkinType string `json:"skinType"`
}

// skinTypeScreenWire tells an absent skinType apart from an empty one.
type skinTypeScreenWire struct {
	SkinType *string `json:"skinType"`
}

type homeParams struct{ NoParams }
type skinAnalysisParams struct{ NoParams }

func (homeParams) screen() Screen         { return ScreenHome }
func (skinAnalysisParams) screen() Screen { return ScreenSkinAnalysis }
func (NoParams) validate() error          { return nil }

func (ResultsParams) screen() Screen { return ScreenResults }
func (p ResultsParams) validate() error {
	if !p.SkinType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSkinType, p.SkinType)
	}
	return nil
}

func (ProductDetailParams) screen() Screen { return ScreenProductDetail }
func (p ProductDetailParams) validate() error {
	return p.Product.Validate()
}

func (SkinTypeScreenParams) screen() Screen { return ScreenSkinTypeScreen }
func (SkinTypeScreenParams) validate() error { return nil }

// Route is a navigation request: a destination plus the payload it expects.
type Route struct {
	Screen Screen
	Params RouteParams
}

func NavigateHome() Route {
	return Route{Screen: ScreenHome, Params: homeParams{}}
}

func NavigateSkinAnalysis() Route {
	return Route{Screen: ScreenSkinAnalysis, Params: skinAnalysisParams{}}
}

func NavigateResults(skinType SkinType) Route {
	return Route{Screen: ScreenResults, Params: ResultsParams{SkinType: skinType}}
}

func NavigateProductDetail(product Product) Route {
	return Route{Screen: ScreenProductDetail, Params: ProductDetailParams{Product: product}}
}

func NavigateSkinTypeScreen(skinType string) Route {
	return Route{Screen: ScreenSkinTypeScreen, Params: SkinTypeScreenParams{SkinType: skinType}}
}

// Validate checks that the payload matches the screen and is well formed.
func (r Route) Validate() error {
	if r.Params == nil {
		return fmt.Errorf("%w: %s has no params payload", ErrInvalidRoute, r.Screen)
	}
	if r.Params.screen() != r.Screen {
		return fmt.Errorf("%w: %s params used for %s", ErrInvalidRoute, r.Params.screen(), r.Screen)
	}
	if err := r.Params.validate(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRoute, r.Screen, err)
	}
	return nil
}

// MarshalJSON renders parameterless screens with "params": null.
func (r Route) MarshalJSON() ([]byte, error) {
	out := struct {
		Screen Screen `json:"screen"`
		Params any    `json:"params"`
	}{Screen: r.Screen}
	switch p := r.Params.(type) {
	case homeParams, skinAnalysisParams, nil:
	default:
		out.Params = p
	}
	return json.Marshal(out)
}

// DecodeRoute parses a wire payload for screen into a validated Route.
// Parameterless screens accept only an absent, null or empty params object;
// the others reject unknown fields.
func DecodeRoute(screen string, raw json.RawMessage) (Route, error) {
	s := Screen(strings.TrimSpace(screen))
	trimmed := bytes.TrimSpace(raw)
	empty := len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))

	var route Route
	switch s {
	case ScreenHome, ScreenSkinAnalysis:
		if !empty && !bytes.Equal(compactJSON(trimmed), []byte("{}")) {
			return Route{}, fmt.Errorf("%w: %s takes no params", ErrInvalidRoute, s)
		}
		if s == ScreenHome {
			return NavigateHome(), nil
		}
		return NavigateSkinAnalysis(), nil
	case ScreenResults:
		var p ResultsParams
		if err := decodeStrict(trimmed, empty, &p); err != nil {
			return Route{}, fmt.Errorf("%w: %s: %w", ErrInvalidRoute, s, err)
		}
		route = NavigateResults(p.SkinType)
	case ScreenProductDetail:
		var p ProductDetailParams
		if err := decodeStrict(trimmed, empty, &p); err != nil {
			return Route{}, fmt.Errorf("%w: %s: %w", ErrInvalidRoute, s, err)
		}
		route = NavigateProductDetail(p.Product)
	case ScreenSkinTypeScreen:
		var p skinTypeScreenWire
		if err := decodeStrict(trimmed, empty, &p); err != nil {
			return Route{}, fmt.Errorf("%w: %s: %w", ErrInvalidRoute, s, err)
		}
		if p.SkinType == nil {
			return Route{}, fmt.Errorf("%w: %s: skinType is required", ErrInvalidRoute, s)
		}
		route = NavigateSkinTypeScreen(*p.SkinType)
	default:
		return Route{}, fmt.Errorf("%w: unknown screen %q", ErrInvalidRoute, screen)
	}
	if err := route.Validate(); err != nil {
		return Route{}, err
	}
	return route, nil
}

func decodeStrict(raw []byte, empty bool, v any) error {
	if empty {
		return fmt.Errorf("params are required")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func compactJSON(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// ScreenContract describes what a screen expects, for clients that build
// routes dynamically.
type ScreenContract struct {
	Screen Screen            `json:"screen"`
	Params map[string]string `json:"params"`
}

// NavigationContract returns the parameter map of the navigation stack.
func NavigationContract() []ScreenContract {
	skinTypes := make([]string, len(SkinTypes))
	for i, t := range SkinTypes {
		skinTypes[i] = string(t)
	}
	return []ScreenContract{
		{Screen: ScreenHome, Params: nil},
		{Screen: ScreenSkinAnalysis, Params: nil},
		{Screen: ScreenResults, Params: map[string]string{"skinType": strings.Join(skinTypes, " | ")}},
		{Screen: ScreenProductDetail, Params: map[string]string{"product": "Product"}},
		{Screen: ScreenSkinTypeScreen, Params: map[string]string{"skinType": "string"}},
	}
}
