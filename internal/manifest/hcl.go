package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/tequmsa/ankhaten/internal/registry"
)

// hclManifestFile represents the top-level structure of an HCL manifest for
// decoding.
type hclManifestFile struct {
	Components []*hclComponent `hcl:"component,block"`
}

// hclComponent represents a single 'component' block. The 'kind' attribute is
// mandatory; every remaining attribute becomes a config entry.
type hclComponent struct {
	ID   string   `hcl:"id,label"`
	Kind string   `hcl:"kind"`
	Body hcl.Body `hcl:",remain"`
}

// loadHCL parses a single HCL manifest file into components.
func loadHCL(path string) ([]registry.Component, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, diags)
	}

	var parsedFile hclManifestFile
	diags = gohcl.DecodeBody(hclFile.Body, nil, &parsedFile)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, diags)
	}

	comps := make([]registry.Component, 0, len(parsedFile.Components))
	for _, block := range parsedFile.Components {
		cfg, err := decodeConfigBody(block.Body)
		if err != nil {
			return nil, fmt.Errorf("component '%s' in %s: %w", block.ID, path, err)
		}
		comps = append(comps, registry.Component{UID: block.ID, Kind: block.Kind, Config: cfg})
	}
	return comps, nil
}

// decodeConfigBody evaluates every leftover attribute of a component block
// into a native Go config map.
func decodeConfigBody(body hcl.Body) (map[string]any, error) {
	cfg := make(map[string]any)
	if body == nil {
		return cfg, nil
	}

	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read config attributes: %w", diags)
	}

	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to evaluate attribute '%s': %w", name, diags)
		}
		native, err := ctyToNative(val)
		if err != nil {
			return nil, fmt.Errorf("in attribute '%s': %w", name, err)
		}
		cfg[name] = native
	}
	return cfg, nil
}

// ctyToNative recursively converts a cty.Value to its most natural Go
// counterpart. Numbers become float64, the common representation for a
// generic target.
func ctyToNative(v cty.Value) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()

	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("could not convert cty.Number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(v, &b); err != nil {
			return nil, fmt.Errorf("could not convert cty.Bool to bool: %w", err)
		}
		return b, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		slice := make([]any, 0)
		it := v.ElementIterator()
		for it.Next() {
			_, val := it.Element()
			nativeVal, err := ctyToNative(val)
			if err != nil {
				return nil, err
			}
			slice = append(slice, nativeVal)
		}
		return slice, nil

	case ty.IsObjectType() || ty.IsMapType():
		goMap := make(map[string]any)
		it := v.ElementIterator()
		for it.Next() {
			key, val := it.Element()
			keyStr := key.AsString()
			nativeVal, err := ctyToNative(val)
			if err != nil {
				return nil, fmt.Errorf("in attribute '%s': %w", keyStr, err)
			}
			goMap[keyStr] = nativeVal
		}
		return goMap, nil

	default:
		return nil, fmt.Errorf("unsupported cty type for conversion: %s", ty.FriendlyName())
	}
}
