package mydata

import (
	"strconv"

	"github.com/rezonia/mydata-gateway/internal/validation"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// queryOf renders typed parameters as the raw query validated by the gateway
func queryOf(p RequestClientsParams) validation.RequestClientsQuery {
	q := validation.RequestClientsQuery{
		DclID:             formatID(p.DclID),
		EntityVatNumber:   p.EntityVatNumber,
		ContinuationToken: p.ContinuationToken,
	}
	if p.MaxDclID != nil {
		q.MaxDclID = formatID(*p.MaxDclID)
	}
	return q
}
