package usecases

import (
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"starwars-api/apperror"
	"starwars-api/entities"
)

func appErr(t *testing.T, err error) *apperror.AppError {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	ae, ok := err.(*apperror.AppError)
	if !ok {
		t.Fatalf("error %T is not an *apperror.AppError: %v", err, err)
	}
	return ae
}

func TestPayloadRequire(t *testing.T) {
	tests := []struct {
		name       string
		payload    Payload
		wantType   apperror.ErrorType
		wantFields []string
	}{
		{
			name:     "empty body",
			payload:  Payload{},
			wantType: apperror.BadRequestError,
		},
		{
			name:       "missing fields listed in field order",
			payload:    Payload{"name": "Tatooine", "diameter": "10465"},
			wantType:   apperror.MissingFieldsError,
			wantFields: []string{"climate", "population", "orbital_period", "rotation_period"},
		},
		{
			name: "missing wins over empty",
			payload: Payload{
				"name": "", "climate": "arid", "population": "1",
				"orbital_period": "1", "rotation_period": "1",
			},
			wantType:   apperror.MissingFieldsError,
			wantFields: []string{"diameter"},
		},
		{
			name: "empty values",
			payload: Payload{
				"name": "", "climate": "  ", "population": nil,
				"orbital_period": "1", "rotation_period": "1", "diameter": "1",
			},
			wantType:   apperror.EmptyValueError,
			wantFields: []string{"name", "climate", "population"},
		},
		{
			name: "object value",
			payload: Payload{
				"name": "x", "climate": map[string]any{"a": 1}, "population": "1",
				"orbital_period": "1", "rotation_period": "1", "diameter": "1",
			},
			wantType:   apperror.InvalidValueError,
			wantFields: []string{"climate"},
		},
		{
			name:       "missing wins over a value of the wrong type",
			payload:    Payload{"name": "Hoth", "climate": map[string]any{"a": 1}},
			wantType:   apperror.MissingFieldsError,
			wantFields: []string{"population", "orbital_period", "rotation_period", "diameter"},
		},
		{
			name: "wrong type wins over empty",
			payload: Payload{
				"name": "", "climate": true, "population": "1",
				"orbital_period": "1", "rotation_period": "1", "diameter": "1",
			},
			wantType:   apperror.InvalidValueError,
			wantFields: []string{"climate"},
		},
		{
			name: "value longer than the column",
			payload: Payload{
				"name": strings.Repeat("x", 121), "climate": "arid", "population": "1",
				"orbital_period": "1", "rotation_period": "1", "diameter": "1",
			},
			wantType:   apperror.InvalidValueError,
			wantFields: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.payload.Require(entities.PlanetFields)
			ae := appErr(t, err)
			if ae.Type != tt.wantType {
				t.Errorf("type = %v, want %v (%s)", ae.Type, tt.wantType, ae.Message)
			}
			if tt.wantFields != nil && !reflect.DeepEqual(ae.Fields, tt.wantFields) {
				t.Errorf("fields = %v, want %v", ae.Fields, tt.wantFields)
			}
		})
	}
}

func TestPayloadRequireSuccess(t *testing.T) {
	p := Payload{
		"name": "Tatooine", "climate": "arid", "population": json.Number("12345678901234567890"),
		"orbital_period": "304", "rotation_period": float64(23), "diameter": "10465",
		"unknown": "ignored",
	}
	values, err := p.Require(entities.PlanetFields)
	if err != nil {
		t.Fatalf("Require: %v", err)
	}
	want := map[string]string{
		"name": "Tatooine", "climate": "arid", "population": "12345678901234567890",
		"orbital_period": "304", "rotation_period": "23", "diameter": "10465",
	}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("values = %v, want %v", values, want)
	}
}

func TestPayloadChanges(t *testing.T) {
	t.Run("identifier rejected", func(t *testing.T) {
		_, err := Payload{"id": 4, "name": "Leia"}.Changes(entities.CharacterFields)
		ae := appErr(t, err)
		if ae.Type != apperror.InvalidFieldNameError || !reflect.DeepEqual(ae.Fields, []string{"id"}) {
			t.Errorf("got %v %v", ae.Type, ae.Fields)
		}
	})

	t.Run("exactly the unknown names", func(t *testing.T) {
		_, err := Payload{"wings": "2", "name": "Leia", "age": "19"}.Changes(entities.CharacterFields)
		ae := appErr(t, err)
		if !reflect.DeepEqual(ae.Fields, []string{"age", "wings"}) {
			t.Errorf("fields = %v, want [age wings]", ae.Fields)
		}
	})

	t.Run("empty value", func(t *testing.T) {
		_, err := Payload{"gender": ""}.Changes(entities.CharacterFields)
		if ae := appErr(t, err); ae.Type != apperror.EmptyValueError {
			t.Errorf("type = %v", ae.Type)
		}
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := Payload{}.Changes(entities.CharacterFields)
		if ae := appErr(t, err); ae.Type != apperror.BadRequestError {
			t.Errorf("type = %v", ae.Type)
		}
	})

	t.Run("subset", func(t *testing.T) {
		values, err := Payload{"height": float64(150), "eye_color": "brown"}.Changes(entities.CharacterFields)
		if err != nil {
			t.Fatalf("Changes: %v", err)
		}
		want := map[string]string{"height": "150", "eye_color": "brown"}
		if !reflect.DeepEqual(values, want) {
			t.Errorf("values = %v, want %v", values, want)
		}
	})
}

func TestPayloadBool(t *testing.T) {
	if _, ok, err := (Payload{}).Bool("is_active"); ok || err != nil {
		t.Errorf("absent: ok=%v err=%v", ok, err)
	}
	if v, ok, err := (Payload{"is_active": true}).Bool("is_active"); !v || !ok || err != nil {
		t.Errorf("true: v=%v ok=%v err=%v", v, ok, err)
	}
	if _, _, err := (Payload{"is_active": "yes"}).Bool("is_active"); err == nil {
		t.Error("string value should be rejected")
	}
}
