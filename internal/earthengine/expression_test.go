package earthengine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoint_OrdersLonLat(t *testing.T) {
	data, err := json.Marshal(Point(13.4, 52.5))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"functionInvocationValue": {
			"functionName": "GeometryConstructors.Point",
			"arguments": {"coordinates": {"constantValue": [13.4, 52.5]}}
		}
	}`, string(data))
}

func TestFilterDate(t *testing.T) {
	data, err := json.Marshal(FilterDate(LoadImageCollection("NOAA/CDR/OISST/V2_1"), "2024-01-01", "2024-01-31"))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"functionInvocationValue": {
			"functionName": "Collection.filter",
			"arguments": {
				"collection": {"functionInvocationValue": {
					"functionName": "ImageCollection.load",
					"arguments": {"id": {"constantValue": "NOAA/CDR/OISST/V2_1"}}
				}},
				"filter": {"functionInvocationValue": {
					"functionName": "Filter.dateRangeContains",
					"arguments": {
						"leftValue": {"functionInvocationValue": {
							"functionName": "DateRange",
							"arguments": {
								"start": {"functionInvocationValue": {"functionName": "Date", "arguments": {"value": {"constantValue": "2024-01-01"}}}},
								"end": {"functionInvocationValue": {"functionName": "Date", "arguments": {"value": {"constantValue": "2024-01-31"}}}}
							}
						}},
						"rightField": {"constantValue": "system:time_start"}
					}
				}}
			}
		}
	}`, string(data))
}

func TestFirstReducer_HasNoArguments(t *testing.T) {
	data, err := json.Marshal(FirstReducer())
	require.NoError(t, err)
	assert.JSONEq(t, `{"functionInvocationValue": {"functionName": "Reducer.first"}}`, string(data))
}

func TestConstantZeroIsKept(t *testing.T) {
	data, err := json.Marshal(Constant(0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"constantValue": 0}`, string(data))
}

func TestNewExpression(t *testing.T) {
	expr := NewExpression(SelectBands(Constant("img"), "a", "b"))
	data, err := json.Marshal(expr)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"result": "0",
		"values": {"0": {"functionInvocationValue": {
			"functionName": "Image.select",
			"arguments": {
				"input": {"constantValue": "img"},
				"bandSelectors": {"constantValue": ["a", "b"]}
			}
		}}}
	}`, string(data))
}
