package topicscan

import (
	"strings"
	"testing"
)

const twistSchema = `Vector3 linear
  float64 x
  float64 y
  float64 z
Vector3 angular
  float64 x
  float64 y
  float64 z`

type vector3 struct {
	X float64 `ros:"x"`
	Y float64 `ros:"y"`
	Z float64 `ros:"z"`
}

type twist struct {
	Linear  vector3 `ros:"linear"`
	Angular vector3 `ros:"angular"`
}

func TestConform(t *testing.T) {
	schema := NewParser().ParseSchemaString(twistSchema)

	var v twist
	if err := Conform(schema, &v); err != nil {
		t.Errorf("Conform() failed: %v", err)
	}
}

func TestConform_UntaggedFields(t *testing.T) {
	schema := NewParser().ParseSchemaString("float64 x\nfloat64 y\n")

	var v struct {
		X float64
		Y float64
	}
	if err := Conform(schema, &v); err != nil {
		t.Errorf("Conform() failed: %v", err)
	}
}

func TestConform_MissingField(t *testing.T) {
	schema := NewParser().ParseSchemaString("float64 x\nfloat64 y\n")

	var v struct {
		X float64 `ros:"x"`
	}
	err := Conform(schema, &v)
	if err == nil {
		t.Fatal("Conform() should fail for missing field")
	}
	if !strings.Contains(err.Error(), `"y"`) {
		t.Errorf("Error should name the missing field, got: %v", err)
	}
}

func TestConform_KindMismatch(t *testing.T) {
	schema := NewParser().ParseSchemaString("string frame_id\n")

	var v struct {
		FrameID int `ros:"frame_id"`
	}
	err := Conform(schema, &v)
	if err == nil {
		t.Fatal("Conform() should fail for kind mismatch")
	}
}

func TestConform_Arrays(t *testing.T) {
	schema := NewParser().ParseSchemaString("float64[] data\nuint8[16] digest\n")

	var good struct {
		Data   []float64 `ros:"data"`
		Digest [16]uint8 `ros:"digest"`
	}
	if err := Conform(schema, &good); err != nil {
		t.Errorf("Conform() failed: %v", err)
	}
	var bad struct {
		Data   float64   `ros:"data"`
		Digest [16]uint8 `ros:"digest"`
	}
	if err := Conform(schema, &bad); err == nil {
		t.Error("Conform() should fail for scalar against array type")
	}
}

func TestConform_NestedArrayOfRecords(t *testing.T) {
	input := `Point32[] points
  float32 x
  float32 y
  float32 z`
	schema := NewParser().ParseSchemaString(input)

	type point32 struct {
		X float32 `ros:"x"`
		Y float32 `ros:"y"`
		Z float32 `ros:"z"`
	}
	var v struct {
		Points []point32 `ros:"points"`
	}
	if err := Conform(schema, &v); err != nil {
		t.Errorf("Conform() failed: %v", err)
	}
}

func TestConform_ConstantsIgnored(t *testing.T) {
	schema := NewParser().ParseSchemaString("uint8 DEBUG=1\nuint8 level\n")

	var v struct {
		Level uint8 `ros:"level"`
	}
	if err := Conform(schema, &v); err != nil {
		t.Errorf("Conform() failed: %v", err)
	}
}

func TestConform_IgnoredTag(t *testing.T) {
	schema := NewParser().ParseSchemaString("float64 x\n")

	var v struct {
		X     float64 `ros:"x"`
		Local string  `ros:"-"`
	}
	if err := Conform(schema, &v); err != nil {
		t.Errorf("Conform() failed: %v", err)
	}
}

func TestConform_BadTarget(t *testing.T) {
	schema := NewParser().ParseSchemaString("float64 x\n")

	if err := Conform(schema, nil); err == nil {
		t.Error("Conform(nil) should fail")
	}

	var n int
	if err := Conform(schema, &n); err == nil {
		t.Error("Conform(*int) should fail")
	}
}
