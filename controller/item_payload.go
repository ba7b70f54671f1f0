package controller

import (
	"ecobarter-backend/model"

	"github.com/tidwall/gjson"
)

// itemPayload is an item as sent by browser clients. Their fixtures use
// numeric ids and occasionally quoted values, so every field is read
// leniently instead of failing the whole request.
type itemPayload struct {
	item    model.Item
	present bool
}

func (p *itemPayload) UnmarshalJSON(data []byte) error {
	r := gjson.ParseBytes(data)
	if !r.IsObject() {
		*p = itemPayload{}
		return nil
	}
	p.present = true
	p.item = itemFromJSON(r)
	return nil
}

func itemFromJSON(r gjson.Result) model.Item {
	item := model.Item{
		ID:          scalarString(r.Get("id")),
		UserID:      scalarString(firstOf(r, "user_id", "userId")),
		Title:       scalarString(r.Get("title")),
		Description: scalarString(r.Get("description")),
		Category:    scalarString(r.Get("category")),
		Condition:   scalarString(r.Get("condition")),
		Value:       r.Get("value").Float(),
		Status:      scalarString(r.Get("status")),
		Images:      []string{},
	}
	for _, img := range r.Get("images").Array() {
		if s := scalarString(img); s != "" {
			item.Images = append(item.Images, s)
		}
	}
	if img := scalarString(r.Get("image")); img != "" && len(item.Images) == 0 {
		item.Images = append(item.Images, img)
	}
	return item
}

// scalarString renders strings and numbers, and drops objects and arrays.
func scalarString(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number:
		return v.Raw
	}
	return ""
}

func firstOf(r gjson.Result, paths ...string) gjson.Result {
	for _, path := range paths {
		if v := r.Get(path); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

// itemList decodes an array of lenient items; anything else is empty.
type itemList []model.Item

func (l *itemList) UnmarshalJSON(data []byte) error {
	r := gjson.ParseBytes(data)
	if !r.IsArray() {
		*l = nil
		return nil
	}
	items := itemList{}
	for _, v := range r.Array() {
		if v.IsObject() {
			items = append(items, itemFromJSON(v))
		}
	}
	*l = items
	return nil
}
