package schematic

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrUnknownVersion = errors.New("unknown minecraft version")

// java edition release -> world data version
var dataVersions = map[string]int32{
	"1.13.2": 1631, "1.14": 1952, "1.14.1": 1957, "1.14.2": 1963, "1.14.3": 1968, "1.14.4": 1976,
	"1.15": 2225, "1.15.1": 2227, "1.15.2": 2230,
	"1.16": 2566, "1.16.1": 2567, "1.16.2": 2578, "1.16.3": 2580, "1.16.4": 2584, "1.16.5": 2586,
	"1.17": 2724, "1.17.1": 2730,
	"1.18": 2860, "1.18.1": 2865, "1.18.2": 2975,
	"1.19": 3105, "1.19.1": 3117, "1.19.2": 3120, "1.19.3": 3218, "1.19.4": 3337,
	"1.20": 3463, "1.20.1": 3465, "1.20.2": 3578, "1.20.3": 3698, "1.20.4": 3700, "1.20.5": 3837, "1.20.6": 3839,
	"1.21": 3953, "1.21.1": 3955, "1.21.2": 4080, "1.21.3": 4082, "1.21.4": 4189, "1.21.5": 4325,
}

// DataVersion resolves a version name such as "1.21.4", "JE_1_21_4" or a
// raw data version number.
func DataVersion(name string) (int32, error) {
	name = strings.TrimSpace(name)

	if n, err := strconv.ParseInt(name, 10, 32); err == nil && n > 0 {
		return int32(n), nil
	}

	key := strings.TrimPrefix(strings.ToUpper(name), "JE_")
	key = strings.ReplaceAll(key, "_", ".")
	if v, ok := dataVersions[key]; ok {
		return v, nil
	}

	return 0, errors.Wrapf(ErrUnknownVersion, "%q", name)
}
