package fetch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ges-reports/gesreport/internal/model"
)

const (
	opConstituencyGraphs    = "constituencyGraphs"
	opCouncilArrivals       = "councilByConstituencyArrivals"
	opCouncilConstituencies = "getCouncilConstituencies"
)

const constituencyGraphsQuery = `query constituencyGraphs($id: ID!) {
  constituencies(where: {id: $id}) {
    id
    name
    aggregateServiceRecords(limit: 4) {
      id
      attendance
      income
      numberOfServices
      week
    }
  }
}`

const councilArrivalsQuery = `query councilByConstituencyArrivals($id: ID!, $arrivalDate: String!) {
  councils(where: {id: $id}, options: {limit: 1}) {
    id
    name
    constituencies {
      id
      name
      activeBacentaCount
      bacentasHaveArrivedCount(arrivalDate: $arrivalDate)
      bussingMembersHaveArrivedCount(arrivalDate: $arrivalDate)
      bussesThatArrivedCount(arrivalDate: $arrivalDate)
    }
  }
}`

const councilConstituenciesQuery = `query getCouncilConstituencies($id: ID!) {
  councils(where: {id: $id}) {
    id
    name
    constituencies {
      id
      name
      bacentaCount
    }
  }
}`

type serviceRecord struct {
	Week       int          `json:"week"`
	Attendance model.Number `json:"attendance"`
	Income     model.Number `json:"income"`
}

type constituencyGraphs struct {
	Constituencies []struct {
		ID                      string          `json:"id"`
		Name                    string          `json:"name"`
		AggregateServiceRecords []serviceRecord `json:"aggregateServiceRecords"`
	} `json:"constituencies"`
}

// ServiceSummary returns the attendance and income of one constituency for
// the reporting week. A week without a record yields null figures.
func (c *Client) ServiceSummary(ctx context.Context, constituencyID string, week int) (model.ServiceSummary, error) {
	var data constituencyGraphs
	vars := map[string]any{"id": constituencyID}
	if err := c.do(ctx, opConstituencyGraphs, constituencyGraphsQuery, vars, &data); err != nil {
		return model.ServiceSummary{}, err
	}
	if len(data.Constituencies) == 0 {
		return model.ServiceSummary{}, &FetchError{
			Op:  opConstituencyGraphs,
			Err: fmt.Errorf("no constituency with id %s", constituencyID),
		}
	}

	cons := data.Constituencies[0]
	summary := model.ServiceSummary{Unit: cons.Name}
	for _, rec := range cons.AggregateServiceRecords {
		if rec.Week == week {
			summary.Attendance = rec.Attendance
			summary.Income = rec.Income
			return summary, nil
		}
	}
	return summary, nil
}

// ServiceSummaries fetches one summary per id with at most limit calls in
// flight. Results follow the order of ids.
func (c *Client) ServiceSummaries(ctx context.Context, ids []string, week, limit int) ([]model.ServiceSummary, error) {
	out := make([]model.ServiceSummary, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := c.ServiceSummary(gctx, id, week)
			if err != nil {
				return err
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type councilArrivals struct {
	Councils []struct {
		Constituencies []struct {
			Name                           string       `json:"name"`
			ActiveBacentaCount             model.Number `json:"activeBacentaCount"`
			BacentasHaveArrivedCount       model.Number `json:"bacentasHaveArrivedCount"`
			BussesThatArrivedCount         model.Number `json:"bussesThatArrivedCount"`
			BussingMembersHaveArrivedCount model.Number `json:"bussingMembersHaveArrivedCount"`
		} `json:"constituencies"`
	} `json:"councils"`
}

// ArrivalSummaries returns the bussing counts of every constituency in a
// council for arrivalDate (YYYY-MM-DD).
func (c *Client) ArrivalSummaries(ctx context.Context, councilID, arrivalDate string) ([]model.ArrivalSummary, error) {
	var data councilArrivals
	vars := map[string]any{"id": councilID, "arrivalDate": arrivalDate}
	if err := c.do(ctx, opCouncilArrivals, councilArrivalsQuery, vars, &data); err != nil {
		return nil, err
	}
	if len(data.Councils) == 0 {
		return nil, &FetchError{Op: opCouncilArrivals, Err: fmt.Errorf("no council with id %s", councilID)}
	}

	var out []model.ArrivalSummary
	for _, council := range data.Councils {
		for _, cons := range council.Constituencies {
			out = append(out, model.ArrivalSummary{
				Unit:            cons.Name,
				ActiveBacentas:  cons.ActiveBacentaCount,
				BacentasArrived: cons.BacentasHaveArrivedCount,
				BussesArrived:   cons.BussesThatArrivedCount,
				MembersArrived:  cons.BussingMembersHaveArrivedCount,
			})
		}
	}
	return out, nil
}

type councilConstituencies struct {
	Councils []struct {
		Constituencies []struct {
			Name         string       `json:"name"`
			BacentaCount model.Number `json:"bacentaCount"`
		} `json:"constituencies"`
	} `json:"councils"`
}

// SubunitCounts returns the total bacenta count of every constituency in a council.
func (c *Client) SubunitCounts(ctx context.Context, councilID string) ([]model.SubunitCount, error) {
	var data councilConstituencies
	vars := map[string]any{"id": councilID}
	if err := c.do(ctx, opCouncilConstituencies, councilConstituenciesQuery, vars, &data); err != nil {
		return nil, err
	}
	if len(data.Councils) == 0 {
		return nil, &FetchError{Op: opCouncilConstituencies, Err: fmt.Errorf("no council with id %s", councilID)}
	}

	var out []model.SubunitCount
	for _, council := range data.Councils {
		for _, cons := range council.Constituencies {
			out = append(out, model.SubunitCount{Unit: cons.Name, TotalBacentas: cons.BacentaCount})
		}
	}
	return out, nil
}
