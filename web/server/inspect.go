package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

const inspectEpsilon = 0.001

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	ObjectIndex  int                    `json:"objectIndex"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// InspectResult describes the first object hit by an inspection ray
type InspectResult struct {
	Hit       bool
	HitRecord *material.HitRecord
	Object    geometry.Primitive
	Index     int     // Index of Object in the scene's world, -1 when unknown
	Time      float64 // Shutter time of the inspection ray
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Vec3) string {
	channel := func(v float64) int {
		return int(math.Max(0, math.Min(1, v)) * 255)
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(c.X), channel(c.Y), channel(c.Z))
}

// extractMaterialInfo describes a material by kind
func (s *Server) extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch mat.Kind {
	case material.KindLambertian:
		properties["albedo"] = vecArray(mat.Albedo)
		properties["color"] = hexColor(mat.Albedo)
	case material.KindMetal:
		properties["albedo"] = vecArray(mat.Albedo)
		properties["color"] = hexColor(mat.Albedo)
		properties["fuzz"] = mat.Fuzz
	case material.KindDielectric:
		properties["refractionIndex"] = mat.RefractionIndex
		properties["color"] = "#ffffff" // Clear glass
	}
	return mat.Kind.String(), properties
}

// extractGeometryInfo describes a primitive by kind
func (s *Server) extractGeometryInfo(p geometry.Primitive, time float64) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch p.Kind {
	case geometry.KindSphere:
		properties["center"] = vecArray(p.Sphere.Center)
		properties["radius"] = p.Sphere.Radius
		properties["hollow"] = p.Sphere.Radius < 0
	case geometry.KindMovingSphere:
		properties["center0"] = vecArray(p.Moving.Center0)
		properties["center1"] = vecArray(p.Moving.Center1)
		properties["centerAtHit"] = vecArray(p.Moving.CenterAt(time))
		properties["time0"] = p.Moving.Time0
		properties["time1"] = p.Moving.Time1
		properties["radius"] = p.Moving.Radius
	}
	return p.Kind.String(), properties
}

// inspectPixel casts a ray through the center of the given pixel and returns the first object hit
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) InspectResult {
	width := sceneObj.SamplingConfig.Width
	height := sceneObj.SamplingConfig.Height

	// Same pixel to viewport mapping as the renderer, without jitter.
	// A fixed seed keeps the lens and shutter samples stable between requests.
	s := (float64(pixelX) + 0.5) / float64(width)
	t := (float64(height-1-pixelY) + 0.5) / float64(height)
	ray := sceneObj.Camera.GetRay(s, t, core.NewSeededSampler(0))

	hit, isHit := sceneObj.World.Hit(ray, inspectEpsilon, math.Inf(1))
	if !isHit {
		return InspectResult{Hit: false, Index: -1}
	}

	// The world returns the hit record only, so find the object that produced it.
	// Ties go to the first object, the same as World.Hit.
	for i, object := range sceneObj.World.Objects() {
		if objectHit, ok := object.Hit(ray, inspectEpsilon, math.Inf(1)); ok && objectHit.T == hit.T {
			return InspectResult{Hit: true, HitRecord: hit, Object: object, Index: i, Time: ray.Time}
		}
	}

	return InspectResult{Hit: true, HitRecord: hit, Index: -1, Time: ray.Time}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	width, height := sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeJSONError(w, http.StatusBadRequest,
			fmt.Sprintf("Pixel coordinates out of bounds (image is %dx%d)", width, height))
		return
	}

	result := inspectPixel(sceneObj, pixelX, pixelY)
	if !result.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{Hit: false, ObjectIndex: -1})
		return
	}

	hit := result.HitRecord
	materialType, materialProps := s.extractMaterialInfo(sceneObj.Materials.Get(hit.Material))
	properties := map[string]interface{}{
		"material": materialProps,
	}

	response := InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		ObjectIndex:  result.Index,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties:   properties,
	}
	if result.Index >= 0 {
		geometryType, geometryProps := s.extractGeometryInfo(result.Object, result.Time)
		response.GeometryType = geometryType
		properties["geometry"] = geometryProps
	}

	writeJSON(w, http.StatusOK, response)
}
