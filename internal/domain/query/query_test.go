package query_test

import (
	"math"
	"testing"

	"github.com/okian/cohort/internal/domain/model"
	"github.com/okian/cohort/internal/domain/query"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInterpret_Scenarios(t *testing.T) {
	Convey("Given the default interpreter", t, func() {
		Convey("When the query names gender, city and a single age", func() {
			spec := query.Interpret("women in toronto around age 30")

			Convey("Then it should extract a +/-2 age window", func() {
				So(spec, ShouldResemble, model.FilterSpec{
					AgeMin:   model.Ptr(28),
					AgeMax:   model.Ptr(32),
					Gender:   model.Ptr(model.GenderWomen),
					Location: model.Ptr("toronto"),
				})
			})
		})

		Convey("When the query has an age range", func() {
			spec := query.Interpret("men age 25-35")

			Convey("Then both bounds are taken verbatim", func() {
				So(spec, ShouldResemble, model.FilterSpec{
					AgeMin: model.Ptr(25),
					AgeMax: model.Ptr(35),
					Gender: model.Ptr(model.GenderMen),
				})
			})
		})

		Convey("When the query names a generation and an industry", func() {
			spec := query.Interpret("gen z in fintech")

			Convey("Then location stays absent", func() {
				So(spec, ShouldResemble, model.FilterSpec{
					Generation: model.Ptr(model.GenerationGenZ),
					Industry:   model.Ptr("fintech"),
				})
			})
		})

		Convey("When the query only names the country", func() {
			spec := query.Interpret("canada")

			Convey("Then location is the country placeholder", func() {
				So(spec, ShouldResemble, model.FilterSpec{Location: model.Ptr("canada")})
			})
		})

		Convey("When the query is empty or whitespace", func() {
			So(query.Interpret("").IsEmpty(), ShouldBeTrue)
			So(query.Interpret("   \t\n").IsEmpty(), ShouldBeTrue)
		})

		Convey("When the query matches no keyword", func() {
			So(query.Interpret("people who like hiking").IsEmpty(), ShouldBeTrue)
		})
	})
}

func TestInterpret_Age(t *testing.T) {
	Convey("Given age phrasings", t, func() {
		cases := []struct {
			text     string
			min, max int
		}{
			{"age 30-30", 30, 30},
			{"age 25–35", 25, 35},
			{"age 25 - 35", 25, 35},
			{"age 25 to 35", 25, 35},
			{"age 25 35", 25, 35},
			{"age range 20-29", 20, 29},
			{"ages between 40 and 50", 40, 50},
			{"age around 30", 28, 32},
			{"age about 45", 43, 47},
			{"aged 60", 58, 62},
			{"AGE 30", 28, 32},
		}
		for _, c := range cases {
			spec := query.Interpret(c.text)
			So(spec.HasAgeRange(), ShouldBeTrue)
			So(*spec.AgeMin, ShouldEqual, c.min)
			So(*spec.AgeMax, ShouldEqual, c.max)
		}

		Convey("When the range is reversed it is kept as given", func() {
			spec := query.Interpret("age 35-25")
			So(*spec.AgeMin, ShouldEqual, 35)
			So(*spec.AgeMax, ShouldEqual, 25)
		})

		Convey("When the range form matches, it wins over the single form", func() {
			spec := query.Interpret("age 30-40 and age 50")
			So(*spec.AgeMin, ShouldEqual, 30)
			So(*spec.AgeMax, ShouldEqual, 40)
		})

		Convey("When no age keyword precedes the number", func() {
			spec := query.Interpret("30 people in toronto")
			So(spec.AgeMin, ShouldBeNil)
			So(spec.AgeMax, ShouldBeNil)
		})

		Convey("When the number overflows an int", func() {
			spec := query.Interpret("age 999999999999999999999999")
			So(spec.AgeMin, ShouldBeNil)
			So(spec.AgeMax, ShouldBeNil)
		})

		Convey("When a single age is too large to widen", func() {
			spec := query.Interpret("age 9223372036854775807")
			So(spec.AgeMin, ShouldBeNil)
			So(spec.AgeMax, ShouldBeNil)

			Convey("Then the largest age that fits still forms an ordered range", func() {
				spec := query.Interpret("age 9223372036854775805")
				So(spec.HasAgeRange(), ShouldBeTrue)
				So(*spec.AgeMin, ShouldBeLessThan, *spec.AgeMax)
				So(*spec.AgeMax, ShouldEqual, math.MaxInt)
			})
		})
	})
}

func TestInterpret_Gender(t *testing.T) {
	Convey("Given gender phrasings", t, func() {
		So(*query.Interpret("women").Gender, ShouldEqual, model.GenderWomen)
		So(*query.Interpret("female founders").Gender, ShouldEqual, model.GenderWomen)
		So(*query.Interpret("men").Gender, ShouldEqual, model.GenderMen)
		So(*query.Interpret("male nurses").Gender, ShouldEqual, model.GenderMen)

		Convey("When both women and men appear, women wins", func() {
			So(*query.Interpret("men and women").Gender, ShouldEqual, model.GenderWomen)
		})

		Convey("When no gender term appears", func() {
			So(query.Interpret("people in calgary").Gender, ShouldBeNil)
		})
	})
}

func TestInterpret_Generation(t *testing.T) {
	Convey("Given generation phrasings", t, func() {
		So(*query.Interpret("Gen Z").Generation, ShouldEqual, model.GenerationGenZ)
		So(*query.Interpret("generation z shoppers").Generation, ShouldEqual, model.GenerationGenZ)
		So(*query.Interpret("millennials").Generation, ShouldEqual, model.GenerationMillennial)
		So(*query.Interpret("gen y").Generation, ShouldEqual, model.GenerationMillennial)
		So(*query.Interpret("gen x parents").Generation, ShouldEqual, model.GenerationGenX)
		So(*query.Interpret("generation x").Generation, ShouldEqual, model.GenerationGenX)

		Convey("When gen x and gen z both appear, Gen Z wins", func() {
			So(*query.Interpret("gen x or gen z").Generation, ShouldEqual, model.GenerationGenZ)
		})

		Convey("When millennial and gen x both appear, Millennial wins", func() {
			So(*query.Interpret("gen x and millennial").Generation, ShouldEqual, model.GenerationMillennial)
		})
	})
}

func TestInterpret_Location(t *testing.T) {
	Convey("Given location phrasings", t, func() {
		Convey("When a city is named it wins over the province", func() {
			So(*query.Interpret("ottawa, ontario").Location, ShouldEqual, "ottawa")
		})

		Convey("When only a province is named", func() {
			So(*query.Interpret("people in alberta").Location, ShouldEqual, "alberta")
		})

		Convey("When a city and the country are named the city is kept", func() {
			So(*query.Interpret("canadian women in vancouver").Location, ShouldEqual, "vancouver")
		})

		Convey("When a province and the country are named the province is kept", func() {
			So(*query.Interpret("manitoba, canada").Location, ShouldEqual, "manitoba")
		})

		Convey("When the country adjective is used", func() {
			So(*query.Interpret("canadian shoppers").Location, ShouldEqual, "canada")
		})

		Convey("When two cities appear, list order decides", func() {
			So(*query.Interpret("vancouver or toronto").Location, ShouldEqual, "toronto")
		})

		Convey("When quebec city is named it beats the province", func() {
			So(*query.Interpret("quebec city").Location, ShouldEqual, "quebec city")
			So(*query.Interpret("rural quebec").Location, ShouldEqual, "quebec")
		})

		Convey("When the city carries accents", func() {
			So(*query.Interpret("Montréal designers").Location, ShouldEqual, "montreal")
		})
	})
}

func TestInterpret_Industry(t *testing.T) {
	Convey("Given industry phrasings", t, func() {
		So(*query.Interpret("women in tech").Industry, ShouldEqual, "tech")
		So(*query.Interpret("fintech").Industry, ShouldEqual, "fintech")
		So(*query.Interpret("marketing managers").Industry, ShouldEqual, "marketing")
		So(*query.Interpret("ux design").Industry, ShouldEqual, "design")
		So(*query.Interpret("operations leads").Industry, ShouldEqual, "operations")
		So(query.Interpret("gardeners").Industry, ShouldBeNil)
	})
}

func TestInterpreter_Options(t *testing.T) {
	Convey("Given an interpreter with custom keywords", t, func() {
		in := query.New(
			query.WithCities([]string{"Springfield"}),
			query.WithProvinces([]string{"Oregon"}),
			query.WithIndustries([]string{"Nuclear"}),
			query.WithCountry("USA", []string{"usa", "american"}),
		)

		Convey("Then the custom lists are used, folded", func() {
			spec := in.Interpret("American nuclear workers in springfield")
			So(*spec.Location, ShouldEqual, "springfield")
			So(*spec.Industry, ShouldEqual, "nuclear")

			So(*in.Interpret("oregon").Location, ShouldEqual, "oregon")
			So(*in.Interpret("american").Location, ShouldEqual, "usa")
			So(in.Interpret("toronto").Location, ShouldBeNil)
		})

		Convey("And Keywords returns the folded lists", func() {
			kw := in.Keywords()
			So(kw.Cities, ShouldResemble, []string{"springfield"})
			So(kw.Country, ShouldEqual, "usa")
		})
	})

	Convey("Given empty option input", t, func() {
		in := query.New(query.WithKeywords(query.Keywords{}))

		Convey("Then the defaults are kept", func() {
			So(in.Keywords().Cities, ShouldResemble, query.DefaultKeywords().Cities)
			So(in.Keywords().Country, ShouldEqual, query.DefaultCountry)
		})
	})
}
