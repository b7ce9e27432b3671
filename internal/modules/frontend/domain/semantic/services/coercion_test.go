package services

import (
	"testing"

	vo "github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/shared/value_objects"
)

func TestCanImplicitlyConvert(t *testing.T) {
	tests := []struct {
		from, to vo.Type
		want     bool
	}{
		{vo.Int8, vo.Int16, true},
		{vo.Int8, vo.Int, true},
		{vo.Int32, vo.Int32, true},
		{vo.Int, vo.Int32, false},
		{vo.Int16, vo.Int8, false},
		{vo.Int8, vo.Float32, true},
		{vo.Int16, vo.Float32, true},
		{vo.Int32, vo.Float32, false},
		{vo.Int32, vo.Float, true},
		{vo.Int, vo.Float, true},
		{vo.Float32, vo.Float, true},
		{vo.Float, vo.Float32, false},
		{vo.Float32, vo.Int, false},
		{vo.Bool, vo.Int, false},
		{vo.Int, vo.Bool, false},
		{vo.NewPointer(vo.Int8), vo.NewPointer(vo.Int8), true},
		{vo.NewPointer(vo.Int8), vo.NewPointer(vo.Int), false},
	}
	for _, tt := range tests {
		if got := CanImplicitlyConvert(tt.from, tt.to); got != tt.want {
			t.Errorf("CanImplicitlyConvert(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCanExplicitlyConvert(t *testing.T) {
	tests := []struct {
		from, to vo.Type
		want     bool
	}{
		{vo.Int, vo.Int8, true},
		{vo.Float, vo.Int32, true},
		{vo.Int8, vo.Float, true},
		{vo.Bool, vo.Int32, true},
		{vo.Int, vo.Bool, false},
		{vo.Float, vo.Bool, false},
		{vo.NewPointer(vo.Int), vo.NewPointer(vo.Int8), true},
		{vo.NewPointer(vo.Int), vo.Int, false},
		{vo.Void, vo.Int, false},
	}
	for _, tt := range tests {
		if got := CanExplicitlyConvert(tt.from, tt.to); got != tt.want {
			t.Errorf("CanExplicitlyConvert(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCommonNumericType(t *testing.T) {
	tests := []struct {
		a, b vo.Type
		want vo.Type
		ok   bool
	}{
		{vo.Int8, vo.Int, vo.Int, true},
		{vo.Int, vo.Int8, vo.Int, true},
		{vo.Int32, vo.Float, vo.Float, true},
		{vo.Float32, vo.Int16, vo.Float32, true},
		{vo.Float32, vo.Int, nil, false},
		{vo.Bool, vo.Int, nil, false},
	}
	for _, tt := range tests {
		got, ok := CommonNumericType(tt.a, tt.b)
		if ok != tt.ok {
			t.Errorf("CommonNumericType(%s, %s) ok = %v, want %v", tt.a, tt.b, ok, tt.ok)
			continue
		}
		if ok && !vo.Equal(got, tt.want) {
			t.Errorf("CommonNumericType(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}
