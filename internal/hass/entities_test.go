package hass

import (
	"testing"
)

func TestFilterCameras(t *testing.T) {
	states := []Entity{
		{EntityID: "light.kitchen", Attributes: map[string]any{}},
		{EntityID: "camera.yard", Attributes: map[string]any{"entity_picture": "/api/camera_proxy/camera.yard"}},
		{EntityID: "camera.no_picture", Attributes: map[string]any{}},
		{EntityID: "camera.front_door", Attributes: map[string]any{"entity_picture": "/api/camera_proxy/camera.front_door"}},
	}

	cameras := FilterCameras(states)

	if len(cameras) != 2 {
		t.Fatalf("got %d cameras, want 2", len(cameras))
	}
	if cameras[0].EntityID != "camera.front_door" || cameras[1].EntityID != "camera.yard" {
		t.Errorf("cameras not sorted by entity id: %s, %s", cameras[0].EntityID, cameras[1].EntityID)
	}
}

func TestFriendlyNameFallsBackToEntityID(t *testing.T) {
	e := Entity{EntityID: "camera.yard", Attributes: map[string]any{}}
	if e.FriendlyName() != "camera.yard" {
		t.Errorf("FriendlyName = %q", e.FriendlyName())
	}
	e.Attributes["friendly_name"] = "Yard"
	if e.FriendlyName() != "Yard" {
		t.Errorf("FriendlyName = %q", e.FriendlyName())
	}
}
