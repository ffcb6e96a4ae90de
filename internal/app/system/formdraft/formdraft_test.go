package formdraft

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var memberSchema = Schema{Fields: []Field{
	{Name: "name", Label: "Name", Kind: Text, Required: true, Tab: "profile"},
	{Name: "birth_date", Label: "Birth date", Kind: Date, Tab: "profile"},
	{Name: "member_expire", Label: "Expiry", Kind: ExpiryDate, Tab: "membership"},
	{Name: "is_public", Label: "Public", Kind: Bool, Tab: "profile"},
	{Name: "img_profile", Label: "Photo", Kind: File, Tab: "profile"},
	{Name: "img_nric", Label: "NRIC", Kind: File, Tab: "profile"},
	{Name: "start_at", Label: "Start", Kind: DateTime},
	{Name: "galleries", Label: "Gallery", Kind: Collection, Columns: []Field{{Name: "caption", Label: "Caption"}}},
}}

var now = time.Date(2024, 7, 9, 10, 0, 0, 0, time.UTC)

func TestSerialize_BooleanFalseIsSent(t *testing.T) {
	p := Serialize(memberSchema, Draft{"is_public": BoolValue(false)}, now)
	if got := p.Fields.Get("is_public"); got != "0" {
		t.Errorf("is_public = %q, want \"0\"", got)
	}
	p = Serialize(memberSchema, Draft{"is_public": BoolValue(true)}, now)
	if got := p.Fields.Get("is_public"); got != "1" {
		t.Errorf("is_public = %q, want \"1\"", got)
	}
	p = Serialize(memberSchema, Draft{}, now)
	if _, ok := p.Fields["is_public"]; ok {
		t.Error("undefined boolean must not be sent")
	}
}

func TestSerialize_Dates(t *testing.T) {
	d := Draft{
		"birth_date": TextValue("2024-3-5"),
		"start_at":   TextValue("2024-03-05T09:07"),
	}
	p := Serialize(memberSchema, d, now)
	if got := p.Fields.Get("birth_date"); got != "2024-03-05" {
		t.Errorf("birth_date = %q, want 2024-03-05", got)
	}
	if got := p.Fields.Get("start_at"); got != "2024-03-05 09:07:00" {
		t.Errorf("start_at = %q, want 2024-03-05 09:07:00", got)
	}
}

func TestSerialize_EmptyDates(t *testing.T) {
	p := Serialize(memberSchema, Draft{"birth_date": TextValue(""), "name": TextValue("Ann")}, now)
	if _, ok := p.Fields["birth_date"]; ok {
		t.Error("empty optional date must be omitted")
	}
	if got := p.Fields.Get("member_expire"); got != "2024-07-09" {
		t.Errorf("member_expire = %q, want today's date", got)
	}
	if got := p.Fields.Get("name"); got != "Ann" {
		t.Errorf("name = %q", got)
	}
}

func TestSerialize_Files(t *testing.T) {
	d := Draft{
		"img_profile": {Set: true, Files: []FileRef{{Name: "me.png", Upload: &multipart.FileHeader{Filename: "me.png"}}}},
		"img_nric":    {Set: true}, // cleared
	}
	p := Serialize(memberSchema, d, now)
	if len(p.Uploads) != 1 || p.Uploads[0].Field != "img_profile" {
		t.Fatalf("uploads = %+v", p.Uploads)
	}
	if _, ok := p.Fields["img_profile"]; ok {
		t.Error("file field must not be in the primary payload")
	}
	if got := p.Fields.Get("img_nric_removed"); got != "1" {
		t.Errorf("img_nric_removed = %q, want 1", got)
	}

	// An unchanged existing file sends nothing.
	p = Serialize(memberSchema, Draft{"img_profile": FileValue("https://cdn/x.png")}, now)
	if len(p.Uploads) != 0 || len(p.Fields) != 1 { // member_expire only
		t.Errorf("unchanged file produced %+v / %v", p.Uploads, p.Fields)
	}
}

func TestSerialize_CollectionsExcluded(t *testing.T) {
	items := []Item{{ID: "1", Values: map[string]string{"caption": "a"}}, {Values: map[string]string{"caption": "b"}}}
	p := Serialize(memberSchema, Draft{"galleries": ItemsValue(items)}, now)
	if _, ok := p.Fields["galleries"]; ok {
		t.Error("collection must not be in the primary payload")
	}
	if len(p.Collections["galleries"]) != 2 {
		t.Errorf("collections = %+v", p.Collections)
	}
}

func TestFromRequest(t *testing.T) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	_ = mw.WriteField("name", "  Ann  ")
	_ = mw.WriteField("is_public", "0")
	_ = mw.WriteField("img_nric_url", "https://cdn/nric.png")
	_ = mw.WriteField("img_nric_clear", "1")
	_ = mw.WriteField("galleries[1][caption]", "second")
	_ = mw.WriteField("galleries[0][id]", "11")
	_ = mw.WriteField("galleries[0][caption]", "first")
	_ = mw.WriteField("galleries[2][caption]", "")
	fw, _ := mw.CreateFormFile("img_profile", "me.png")
	_, _ = fw.Write([]byte("PNG"))
	_ = mw.Close()

	r := httptest.NewRequest("POST", "/members/new", body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	d, err := FromRequest(r, memberSchema)
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	if d.Text("name") != "Ann" {
		t.Errorf("name = %q", d.Text("name"))
	}
	if v := d["is_public"]; !v.Set || v.Bool {
		t.Errorf("is_public = %+v, want defined false", v)
	}
	if v := d["img_profile"]; len(v.Files) != 1 || !v.Files[0].Pending() {
		t.Errorf("img_profile = %+v", v)
	}
	if v := d["img_nric"]; !v.Set || len(v.Files) != 0 {
		t.Errorf("img_nric = %+v, want cleared", v)
	}
	items := d.Items("galleries")
	if len(items) != 2 {
		t.Fatalf("items = %+v", items)
	}
	if items[0].ID != "11" || items[0].Values["caption"] != "first" || items[1].Values["caption"] != "second" {
		t.Errorf("items out of order or wrong: %+v", items)
	}
}

func TestFromRequest_CheckboxLastValueWins(t *testing.T) {
	r := httptest.NewRequest("POST", "/x", strings.NewReader("is_public=0&is_public=1"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	d, err := FromRequest(r, memberSchema)
	if err != nil {
		t.Fatal(err)
	}
	if !d.Checked("is_public") {
		t.Error("checked box read as false")
	}
}

func TestValidate(t *testing.T) {
	errs := Validate(memberSchema, Draft{"birth_date": TextValue("not a date")})
	if _, ok := errs["name"]; !ok {
		t.Error("missing required name not reported")
	}
	if _, ok := errs["birth_date"]; !ok {
		t.Error("bad date not reported")
	}
	if got := Invalid(memberSchema, errs); len(got) != 2 || got[0] != "name" {
		t.Errorf("Invalid = %v", got)
	}
	if errs := Validate(memberSchema, Draft{"name": TextValue("Ann")}); len(errs) != 0 {
		t.Errorf("valid draft reported %v", errs)
	}
}
