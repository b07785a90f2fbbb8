package assignment

import "testing"

func TestHighestPriority(t *testing.T) {
	tests := []struct {
		name  string
		types []Type
		want  Type
		ok    bool
	}{
		{
			name:  "empty",
			types: nil,
			ok:    false,
		},
		{
			name:  "single staff",
			types: []Type{TypeStaff},
			want:  TypeStaff,
			ok:    true,
		},
		{
			name:  "manager beats staff",
			types: []Type{TypeStaff, TypeManager},
			want:  TypeManager,
			ok:    true,
		},
		{
			name:  "building admin beats all",
			types: []Type{TypeStaff, TypeBuildingAdmin, TypeManager},
			want:  TypeBuildingAdmin,
			ok:    true,
		},
		{
			name:  "order independent",
			types: []Type{TypeManager, TypeStaff},
			want:  TypeManager,
			ok:    true,
		},
		{
			name:  "duplicates collapse",
			types: []Type{TypeStaff, TypeStaff, TypeManager},
			want:  TypeManager,
			ok:    true,
		},
		{
			name:  "unknown types ignored",
			types: []Type{Type("concierge")},
			ok:    false,
		},
		{
			name:  "unknown mixed with known",
			types: []Type{Type("concierge"), TypeStaff},
			want:  TypeStaff,
			ok:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HighestPriority(tt.types)
			if ok != tt.ok {
				t.Fatalf("HighestPriority(%v) ok = %v, want %v", tt.types, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("HighestPriority(%v) = %q, want %q", tt.types, got, tt.want)
			}
		})
	}
}

func TestTypeValid(t *testing.T) {
	for _, typ := range TypePriority {
		if !typ.Valid() {
			t.Errorf("Type(%q).Valid() = false, want true", typ)
		}
	}
	if Type("concierge").Valid() {
		t.Error("Type(\"concierge\").Valid() = true, want false")
	}
	if Type("").Valid() {
		t.Error("empty Type.Valid() = true, want false")
	}
}
