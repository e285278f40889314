package hass

import (
	"sort"
	"strings"
	"time"
)

// Entity is one entry from the platform's state listing.
type Entity struct {
	EntityID     string         `json:"entity_id"`
	State        string         `json:"state"`
	Attributes   map[string]any `json:"attributes"`
	LastChanged  time.Time      `json:"last_changed"`
	LastReported time.Time      `json:"last_reported"`
	LastUpdated  time.Time      `json:"last_updated"`
}

// FriendlyName returns the human-readable name, falling back to the entity id.
func (e Entity) FriendlyName() string {
	if name, ok := e.Attributes["friendly_name"].(string); ok && name != "" {
		return name
	}
	return e.EntityID
}

// Picture returns the entity_picture reference used to fetch the current
// frame, or "" when the entity exposes none.
func (e Entity) Picture() string {
	pic, _ := e.Attributes["entity_picture"].(string)
	return pic
}

// FilterCameras returns the camera entities that expose a picture reference,
// sorted by entity id.
func FilterCameras(states []Entity) []Entity {
	var cameras []Entity
	for _, e := range states {
		if strings.HasPrefix(e.EntityID, "camera.") && e.Picture() != "" {
			cameras = append(cameras, e)
		}
	}
	sort.Slice(cameras, func(i, j int) bool {
		return cameras[i].EntityID < cameras[j].EntityID
	})
	return cameras
}
