package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Kind identifies which reflectance model a Material uses
type Kind uint8

const (
	KindLambertian Kind = iota
	KindMetal
	KindDielectric
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindMetal:
		return "metal"
	case KindDielectric:
		return "dielectric"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind converts a name produced by Kind.String back into a Kind
func ParseKind(name string) (Kind, error) {
	switch name {
	case "lambertian", "diffuse":
		return KindLambertian, nil
	case "metal":
		return KindMetal, nil
	case "dielectric", "glass":
		return KindDielectric, nil
	default:
		return 0, fmt.Errorf("unknown material kind %q", name)
	}
}

var (
	// ErrInvalidRefractionIndex is returned for non-positive or non-finite refraction indices
	ErrInvalidRefractionIndex = errors.New("refraction index must be a positive finite number")
	// ErrInvalidFuzz is returned for metal fuzz values outside [0,1]
	ErrInvalidFuzz = errors.New("metal fuzz must be within [0, 1]")
)

// Material is a closed set of surface reflectance models.
// Only the fields relevant to Kind are meaningful. Materials are immutable
// values shared between primitives through a Table.
type Material struct {
	Kind            Kind
	Albedo          core.Vec3 // Lambertian and Metal
	Fuzz            float64   // Metal: 0.0 = perfect mirror, 1.0 = very fuzzy
	RefractionIndex float64   // Dielectric: e.g. 1.5 for glass
}

// NewLambertian creates a perfectly diffuse material
func NewLambertian(albedo core.Vec3) Material {
	return Material{Kind: KindLambertian, Albedo: albedo}
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzz float64) Material {
	// Clamp fuzz to valid range
	if fuzz > 1.0 || math.IsInf(fuzz, 1) {
		fuzz = 1.0
	}
	if fuzz < 0.0 || math.IsNaN(fuzz) {
		fuzz = 0.0
	}
	return Material{Kind: KindMetal, Albedo: albedo, Fuzz: fuzz}
}

// NewDielectric creates a transparent material like glass that can both reflect and refract.
// It panics if refractionIndex is not a positive finite number.
func NewDielectric(refractionIndex float64) Material {
	if !validRefractionIndex(refractionIndex) {
		panic(fmt.Sprintf("material: %v: %v", ErrInvalidRefractionIndex, refractionIndex))
	}
	return Material{Kind: KindDielectric, RefractionIndex: refractionIndex}
}

// Validate reports parameters that would break scattering mid-trace
func (m Material) Validate() error {
	switch m.Kind {
	case KindLambertian:
		return nil
	case KindMetal:
		if m.Fuzz < 0 || m.Fuzz > 1 || math.IsNaN(m.Fuzz) {
			return fmt.Errorf("%w: got %v", ErrInvalidFuzz, m.Fuzz)
		}
		return nil
	case KindDielectric:
		if !validRefractionIndex(m.RefractionIndex) {
			return fmt.Errorf("%w: got %v", ErrInvalidRefractionIndex, m.RefractionIndex)
		}
		return nil
	default:
		return fmt.Errorf("unknown material kind %v", m.Kind)
	}
}

func validRefractionIndex(index float64) bool {
	return index > 0 && !math.IsInf(index, 1)
}

// Scatter produces the scattered ray and attenuation for a ray hitting this material.
// It returns false when the ray is absorbed.
func (m Material) Scatter(rayIn core.Ray, hit HitRecord, sampler core.Sampler) (ScatterResult, bool) {
	switch m.Kind {
	case KindLambertian:
		return scatterLambertian(m, rayIn, hit, sampler)
	case KindMetal:
		return scatterMetal(m, rayIn, hit, sampler)
	case KindDielectric:
		return scatterDielectric(m, rayIn, hit, sampler)
	default:
		return ScatterResult{}, false
	}
}
