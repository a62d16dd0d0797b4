package kernel

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when
// no specific validation error is supplied for an unconstructed object.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard detects value objects that bypassed their constructor.
// Kernel types embed it as a private field set by NewConstructorGuard; a
// zero-value instance fails Validate, so callers can never operate on an
// unvalidated UUID or GeoPoint.
//
// Example:
//
//	type GeoPoint struct {
//	    latitude  float64
//	    longitude float64
//	    guard     ConstructorGuard
//	}
//
//	func NewGeoPoint(lat, lon float64) (GeoPoint, error) {
//	    if lat < MinLatitude || lat > MaxLatitude {
//	        return GeoPoint{}, errors.New("latitude is out of range")
//	    }
//	    return GeoPoint{latitude: lat, longitude: lon, guard: NewConstructorGuard()}, nil
//	}
//
//	func (p GeoPoint) Validate() error {
//	    return p.guard.Validate(ErrGeoPointIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marking the enclosing object as
// properly constructed. Call it in every kernel constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil if the object was built via its constructor.
// Otherwise it returns validationError, or ErrDefaultConstructorGuard when
// validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
