package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/usecases"
	"github.com/golfkart/golfkart/internal/pkg/ratelimit"
)

var errQuotaLocked = errors.New("unauthorized")

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
		},
	})

	weatherType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Weather",
		Fields: graphql.Fields{
			"temperature":         &graphql.Field{Type: graphql.Float},
			"feelsLike":           &graphql.Field{Type: graphql.Float},
			"condition":           &graphql.Field{Type: graphql.String},
			"windSpeed":           &graphql.Field{Type: graphql.Float},
			"windDirection":       &graphql.Field{Type: graphql.Float},
			"humidity":            &graphql.Field{Type: graphql.Float},
			"precipitationChance": &graphql.Field{Type: graphql.Float},
			"conditionNorwegian": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if w, ok := p.Source.(*domain.Weather); ok && w != nil {
						return domain.TranslateCondition(w.Condition), nil
					}
					return nil, nil
				},
			},
		},
	})

	courseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Course",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"slug":         &graphql.Field{Type: graphql.String},
			"name":         &graphql.Field{Type: graphql.String},
			"formerName":   &graphql.Field{Type: graphql.String},
			"city":         &graphql.Field{Type: graphql.String},
			"municipality": &graphql.Field{Type: graphql.String},
			"region":       &graphql.Field{Type: graphql.String},
			"holes":        &graphql.Field{Type: graphql.Int},
			"par":          &graphql.Field{Type: graphql.Int},
			"lengthMeters": &graphql.Field{Type: graphql.Int},
			"coordinates":  &graphql.Field{Type: coordinateType},
			"weather":      &graphql.Field{Type: weatherType},
			"averageRating": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(*domain.Course); ok {
						avg, _ := domain.AverageRating(c.Ratings)
						return avg, nil
					}
					return nil, nil
				},
			},
		},
	})

	rankedCourseType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RankedCourse",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"slug":          &graphql.Field{Type: graphql.String},
			"name":          &graphql.Field{Type: graphql.String},
			"city":          &graphql.Field{Type: graphql.String},
			"region":        &graphql.Field{Type: graphql.String},
			"holes":         &graphql.Field{Type: graphql.Int},
			"par":           &graphql.Field{Type: graphql.Int},
			"coordinates":   &graphql.Field{Type: coordinateType},
			"distanceKm":    &graphql.Field{Type: graphql.Float},
			"averageRating": &graphql.Field{Type: graphql.Float},
			"totalReviews":  &graphql.Field{Type: graphql.Int},
		},
	})

	quotaWindowType := graphql.NewObject(graphql.ObjectConfig{
		Name: "QuotaWindow",
		Fields: graphql.Fields{
			"used":       &graphql.Field{Type: graphql.Int},
			"limit":      &graphql.Field{Type: graphql.Int},
			"remaining":  &graphql.Field{Type: graphql.Int},
			"resetsInMs": &graphql.Field{Type: graphql.Float},
		},
	})

	quotaType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PhotoQuota",
		Fields: graphql.Fields{
			"hourly":  &graphql.Field{Type: quotaWindowType},
			"daily":   &graphql.Field{Type: quotaWindowType},
			"monthly": &graphql.Field{Type: quotaWindowType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"coursesNearby": &graphql.Field{
				Type:        graphql.NewList(rankedCourseType),
				Description: "Closest courses around a point, nearest first",
				Args: graphql.FieldConfigArgument{
					"lat":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radiusKm": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: float64(usecases.DefaultRadiusKm)},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: usecases.DefaultLimit},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					center := domain.Coordinate{
						Latitude:  p.Args["lat"].(float64),
						Longitude: p.Args["lng"].(float64),
					}
					return deps.Courses.FindNearby(p.Context, center, p.Args["radiusKm"].(float64), p.Args["limit"].(int))
				},
			},
			"course": &graphql.Field{
				Type:        courseType,
				Description: "A course by slug",
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Courses.GetBySlug(p.Context, p.Args["slug"].(string))
				},
			},
			"searchCourses": &graphql.Field{
				Type:        graphql.NewList(courseType),
				Description: "Search courses by name, place or former name",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					courses, err := deps.Courses.Search(p.Context, p.Args["query"].(string), p.Args["limit"].(int))
					if err != nil {
						return nil, err
					}
					out := make([]*domain.Course, len(courses))
					for i := range courses {
						out[i] = &courses[i]
					}
					return out, nil
				},
			},
			"photoQuota": &graphql.Field{
				Type:        quotaType,
				Description: "Usage of the places photo quota; needs the rate-limit secret",
				Args: graphql.FieldConfigArgument{
					"secret": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					secret, _ := p.Args["secret"].(string)
					if !quotaSecretMatches(deps, secret) {
						return nil, errQuotaLocked
					}
					if deps.PhotoQuota == nil {
						return nil, nil
					}
					st := deps.PhotoQuota.Status()
					return map[string]interface{}{
						"hourly":  quotaWindow(st.Hourly),
						"daily":   quotaWindow(st.Daily),
						"monthly": quotaWindow(st.Monthly),
					}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func quotaWindow(w ratelimit.WindowStatus) map[string]interface{} {
	return map[string]interface{}{
		"used":       w.Used,
		"limit":      w.Limit,
		"remaining":  w.Remaining(),
		"resetsInMs": float64(w.ResetsInMs()),
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
