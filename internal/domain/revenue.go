package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/appdotbuilder/revenue-dashboard/pkg/optional"
	"github.com/shopspring/decimal"
)

// Granularity define a largura do balde de calendário usado para agrupar as vendas
type Granularity string

const (
	GranularityYearly  Granularity = "yearly"
	GranularityMonthly Granularity = "monthly"
	GranularityWeekly  Granularity = "weekly"
	GranularityDaily   Granularity = "daily"

	DefaultGranularity = GranularityMonthly
)

var ErrUnknownGranularity = errors.New("granularidade desconhecida")

// Granularities lista as granularidades suportadas, da mais larga para a mais estreita
var Granularities = []Granularity{GranularityYearly, GranularityMonthly, GranularityWeekly, GranularityDaily}

// ParseGranularity converte o valor recebido na API. Vazio significa mensal.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	if g == "" {
		return DefaultGranularity, nil
	}
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
	}
	return g, nil
}

func (g Granularity) Valid() bool {
	switch g {
	case GranularityYearly, GranularityMonthly, GranularityWeekly, GranularityDaily:
		return true
	}
	return false
}

func (g Granularity) String() string {
	return string(g)
}

// RevenueFilter são os filtros aceitos pelas consultas de receita.
// StartDate e EndDate são dias de calendário inclusivos.
type RevenueFilter struct {
	ProductIDs  []int64
	StartDate   *time.Time
	EndDate     *time.Time
	Granularity Granularity
}

// RevenueDataPoint é um ponto da série de receita. ProductID e ProductName só
// estão presentes quando o ponto se refere a um único produto.
type RevenueDataPoint struct {
	Period      string
	Revenue     decimal.Decimal
	ProductID   optional.Value[int64]
	ProductName optional.Value[string]
}

type revenueDataPointJSON struct {
	Period      string      `json:"period"`
	Revenue     json.Number `json:"revenue"`
	ProductID   *int64      `json:"product_id,omitempty"`
	ProductName *string     `json:"product_name,omitempty"`
}

func (p RevenueDataPoint) MarshalJSON() ([]byte, error) {
	out := revenueDataPointJSON{
		Period:  p.Period,
		Revenue: json.Number(p.Revenue.StringFixed(2)),
	}
	if id, ok := p.ProductID.Get(); ok {
		out.ProductID = &id
	}
	if name, ok := p.ProductName.Get(); ok {
		out.ProductName = &name
	}
	return json.Marshal(out)
}

func (p *RevenueDataPoint) UnmarshalJSON(data []byte) error {
	var in revenueDataPointJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	revenue, err := decimal.NewFromString(in.Revenue.String())
	if err != nil {
		return fmt.Errorf("receita inválida %q: %w", in.Revenue, err)
	}

	*p = RevenueDataPoint{Period: in.Period, Revenue: revenue}
	if in.ProductID != nil {
		p.ProductID = optional.Some(*in.ProductID)
	}
	if in.ProductName != nil {
		p.ProductName = optional.Some(*in.ProductName)
	}
	return nil
}
