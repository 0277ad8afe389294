package utils

import (
	"math"
	"testing"
)

func TestPageNormalize(t *testing.T) {
	p := Page{Page: 0, Limit: 1000}.Normalize()
	if p.Page != 1 || p.Limit != MaxLimit {
		t.Fatalf("got %+v", p)
	}
	if (Page{Page: 3, Limit: 20}).Offset() != 40 {
		t.Fatal("offset for page 3 of 20 should be 40")
	}
}

func TestPageHugeValuesStayNonNegative(t *testing.T) {
	p := Page{Page: math.MaxInt, Limit: MaxLimit}.Normalize()
	if p.Page != MaxPage {
		t.Fatalf("page should be capped at %d, got %d", MaxPage, p.Page)
	}
	if off := p.Offset(); off < 0 || off != (MaxPage-1)*MaxLimit {
		t.Fatalf("unexpected offset %d", off)
	}
	if off := (Page{Page: -5, Limit: 10}).Offset(); off != 0 {
		t.Fatalf("offset for a bad page should be 0, got %d", off)
	}
}

func TestBuildMeta(t *testing.T) {
	m := BuildMeta(21, Page{Page: 2, Limit: 10})
	if m.TotalPages != 3 || !m.HasNext || !m.HasPrev {
		t.Fatalf("got %+v", m)
	}
	empty := BuildMeta(0, Page{Page: 1, Limit: 10})
	if empty.TotalPages != 0 || empty.HasNext {
		t.Fatalf("got %+v", empty)
	}
}

func TestMeetingLink(t *testing.T) {
	link, err := MeetingLink("https://meet.example.org/")
	if err != nil {
		t.Fatal(err)
	}
	const prefix = "https://meet.example.org/"
	if len(link) != len(prefix)+meetingCodeLength+2 || link[:len(prefix)] != prefix {
		t.Fatalf("unexpected link %q", link)
	}
	other, _ := MeetingLink("https://meet.example.org")
	if other == link {
		t.Fatal("two links should not collide")
	}
}
