package schema

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func wineBody(drop string, override map[string]interface{}) []byte {
	body := map[string]interface{}{}
	for k, v := range Wine.Example() {
		body[k] = v
	}
	delete(body, drop)
	for k, v := range override {
		body[k] = v
	}
	b, _ := json.Marshal(body)
	return b
}

func TestBuiltinSchemas(t *testing.T) {
	Convey("built-in schemas are registered with fixed dimensionality", t, func() {
		So(Names(), ShouldResemble, []string{"wine", "winequality"})
		s, err := Lookup("wine")
		So(err, ShouldBeNil)
		So(s.Len(), ShouldEqual, 13)
		So(s.FieldNames()[0], ShouldEqual, "alcohol")
		So(s.FieldNames()[12], ShouldEqual, "proline")

		s, err = Lookup("winequality")
		So(err, ShouldBeNil)
		So(s.Len(), ShouldEqual, 11)

		_, err = Lookup("iris")
		So(err, ShouldNotBeNil)
	})
}

func TestValidate(t *testing.T) {
	Convey("validate raw bodies against the wine schema", t, func() {
		testcases := []struct {
			caseName string
			body     []byte
			fields   []string
		}{
			{
				caseName: "example payload is valid",
				body:     wineBody("", nil),
			},
			{
				caseName: "unknown fields are ignored",
				body:     wineBody("", map[string]interface{}{"vintage": 1999, "label": "red"}),
			},
			{
				caseName: "numeric strings are coerced",
				body:     wineBody("", map[string]interface{}{"ash": " 2.51 "}),
			},
			{
				caseName: "missing alcohol",
				body:     wineBody("alcohol", nil),
				fields:   []string{"alcohol"},
			},
			{
				caseName: "non numeric values",
				body:     wineBody("", map[string]interface{}{"hue": "blue", "proline": true, "ash": nil}),
				fields:   []string{"ash", "hue", "proline"},
			},
			{
				caseName: "non finite values",
				body:     []byte(`{"alcohol": 1e400}`),
				fields:   Wine.FieldNames(),
			},
			{
				caseName: "array body",
				body:     []byte(`[1, 2, 3]`),
				fields:   []string{"body"},
			},
			{
				caseName: "broken json",
				body:     []byte(`{"alcohol": `),
				fields:   []string{"body"},
			},
		}
		for _, testcase := range testcases {
			Convey(testcase.caseName, func() {
				vector, err := Wine.Validate(testcase.body)
				if testcase.fields == nil {
					So(err, ShouldBeNil)
					So(len(vector), ShouldEqual, Wine.Len())
					return
				}
				So(vector, ShouldBeNil)
				verr, ok := err.(*ValidationError)
				So(ok, ShouldBeTrue)
				names := make([]string, 0, len(verr.Fields))
				for _, f := range verr.Fields {
					names = append(names, f.Field)
				}
				So(names, ShouldResemble, testcase.fields)
			})
		}
	})

	Convey("vector follows schema order, not body order", t, func() {
		body := []byte(`{"proline": 562.0, "hue": 1.04, "alcohol": 13.2, "malic_acid": 2.77, "ash": 2.51,
			"alcalinity_of_ash": 18.5, "magnesium": 96, "total_phenols": 2.45, "flavanoids": 2.53,
			"nonflavanoid_phenols": 0.29, "proanthocyanins": 1.54, "color_intensity": 4.6, "od280_od315": 2.77}`)
		vector, err := Wine.Validate(body)
		So(err, ShouldBeNil)
		So(vector[0], ShouldEqual, 13.2)
		So(vector[10], ShouldEqual, 1.04)
		So(vector[12], ShouldEqual, 562.0)
	})

	Convey("a repeated key keeps its last value", t, func() {
		body := append([]byte(`{"alcohol": "strong", `), wineBody("", nil)[1:]...)
		vector, err := Wine.Validate(body)
		So(err, ShouldBeNil)
		So(vector[0], ShouldEqual, 13.2)

		body = append(wineBody("", nil)[:len(wineBody("", nil))-1], []byte(`, "alcohol": "strong"}`)...)
		_, err = Wine.Validate(body)
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "alcohol: value is not a valid number")
	})

	Convey("error message names the offending fields", t, func() {
		_, err := WineQuality.Validate([]byte(`{}`))
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "fixed_acidity: field required")
		So(err.Error(), ShouldContainSubstring, "pH: field required")
	})
}
