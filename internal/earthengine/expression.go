package earthengine

// Value is a node in an Earth Engine expression graph. Exactly one field is set.
type Value struct {
	ConstantValue           any                 `json:"constantValue,omitempty"`
	FunctionInvocationValue *FunctionInvocation `json:"functionInvocationValue,omitempty"`
}

// FunctionInvocation calls a server-side algorithm by name.
type FunctionInvocation struct {
	FunctionName string           `json:"functionName"`
	Arguments    map[string]Value `json:"arguments,omitempty"`
}

// Expression is the serialized graph sent to value:compute. Result names the
// entry in Values holding the root node.
type Expression struct {
	Result string           `json:"result"`
	Values map[string]Value `json:"values"`
}

// NewExpression wraps root as a single-node expression.
func NewExpression(root Value) Expression {
	return Expression{
		Result: "0",
		Values: map[string]Value{"0": root},
	}
}

func Constant(v any) Value {
	return Value{ConstantValue: v}
}

func Invoke(name string, args map[string]Value) Value {
	return Value{FunctionInvocationValue: &FunctionInvocation{
		FunctionName: name,
		Arguments:    args,
	}}
}

// LoadImageCollection references a catalog collection such as "ECMWF/ERA5_LAND/HOURLY".
func LoadImageCollection(id string) Value {
	return Invoke("ImageCollection.load", map[string]Value{
		"id": Constant(id),
	})
}

// Date parses an ISO date string server-side.
func Date(iso string) Value {
	return Invoke("Date", map[string]Value{
		"value": Constant(iso),
	})
}

// FilterDate keeps images whose system:time_start falls in [start, end).
func FilterDate(collection Value, start, end string) Value {
	dateRange := Invoke("DateRange", map[string]Value{
		"start": Date(start),
		"end":   Date(end),
	})
	return Invoke("Collection.filter", map[string]Value{
		"collection": collection,
		"filter": Invoke("Filter.dateRangeContains", map[string]Value{
			"leftValue":  dateRange,
			"rightField": Constant("system:time_start"),
		}),
	})
}

// Mean reduces a collection to the per-pixel, per-band mean image.
func Mean(collection Value) Value {
	return Invoke("reduce.mean", map[string]Value{
		"collection": collection,
	})
}

func SelectBands(image Value, bands ...string) Value {
	return Invoke("Image.select", map[string]Value{
		"input":         image,
		"bandSelectors": Constant(bands),
	})
}

func AddBands(dst, src Value) Value {
	return Invoke("Image.addBands", map[string]Value{
		"dstImg": dst,
		"srcImg": src,
	})
}

// Point builds a point geometry. Earth Engine orders coordinates lon, lat.
func Point(lon, lat float64) Value {
	return Invoke("GeometryConstructors.Point", map[string]Value{
		"coordinates": Constant([]float64{lon, lat}),
	})
}

func FirstReducer() Value {
	return Invoke("Reducer.first", nil)
}

// ReduceRegion applies reducer to every band of image over geometry and
// yields a dictionary keyed by band name.
func ReduceRegion(image, reducer, geometry Value, scale, maxPixels float64) Value {
	return Invoke("Image.reduceRegion", map[string]Value{
		"image":     image,
		"reducer":   reducer,
		"geometry":  geometry,
		"scale":     Constant(scale),
		"maxPixels": Constant(maxPixels),
	})
}
