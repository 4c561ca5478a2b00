package handlers

import (
	"github.com/shouni/gemini-menu-studio/pkg/domain"
	"github.com/shouni/gemini-menu-studio/pkg/imgutil"
	"github.com/shouni/gemini-menu-studio/pkg/orchestrator"
)

type stateView struct {
	MenuText    string              `json:"menu_text"`
	Dishes      []domain.Dish       `json:"dishes"`
	Style       string              `json:"style"`
	AspectRatio string              `json:"aspect_ratio,omitempty"`
	Images      map[string]slotView `json:"images"`
	LoadingMenu bool                `json:"loading_menu"`
	Generating  bool                `json:"generating"`
	Error       string              `json:"error,omitempty"`
	Edit        *editView           `json:"edit,omitempty"`
	Revision    uint64              `json:"revision"`
}

type slotView struct {
	Status string `json:"status"`
	URL    string `json:"url,omitempty"`
}

type editView struct {
	Dish     domain.Dish `json:"dish"`
	Mode     string      `json:"mode"`
	ImageURL string      `json:"image_url"`
	Applying bool        `json:"applying"`
	Error    string      `json:"error,omitempty"`
}

type styleView struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	AspectRatio string `json:"aspect_ratio"`
}

func newStateView(snap orchestrator.Snapshot) stateView {
	v := stateView{
		MenuText:    snap.MenuText,
		Dishes:      snap.Dishes,
		Style:       snap.Style.String(),
		AspectRatio: snap.Aspect.String(),
		Images:      make(map[string]slotView, len(snap.Images)),
		LoadingMenu: snap.LoadingMenu,
		Generating:  snap.Generating,
		Error:       snap.Error,
		Revision:    snap.Revision,
	}
	if v.Dishes == nil {
		v.Dishes = []domain.Dish{}
	}
	for name, slot := range snap.Images {
		sv := slotView{Status: string(slot.Status)}
		if slot.IsReady() {
			sv.URL = imgutil.EncodeDataURL(slot.MimeType, slot.Data)
		}
		v.Images[name] = sv
	}
	if e := snap.Edit; e != nil {
		v.Edit = &editView{
			Dish:     e.Dish,
			Mode:     string(e.Mode),
			ImageURL: e.ImageURL,
			Applying: e.Applying,
			Error:    e.Err,
		}
	}
	return v
}
