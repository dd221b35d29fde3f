package hierarchy

import "slices"

// superTypesFirst orders the classes of supers so that each class follows
// all of its supertypes. supers maps a class to the names it extends or
// implements; names without an entry of their own are treated as already
// placed. Classes that become ready together are ordered by name.
//
// Classes that can never be placed are returned sorted as blocked. They sit
// on a cycle or below one.
func superTypesFirst(supers map[string][]string) (order, blocked []string) {
	waiting := make(map[string]int, len(supers))
	subtypes := make(map[string][]string)

	for class, ss := range supers {
		for _, s := range ss {
			if _, ok := supers[s]; !ok {
				continue
			}

			waiting[class]++
			subtypes[s] = append(subtypes[s], class)
		}
	}

	var ready []string

	for class := range supers {
		if waiting[class] == 0 {
			ready = append(ready, class)
		}
	}

	slices.Sort(ready)

	order = make([]string, 0, len(supers))

	for len(ready) > 0 {
		class := ready[0]
		ready = ready[1:]
		order = append(order, class)

		for _, sub := range subtypes[class] {
			waiting[sub]--
			if waiting[sub] == 0 {
				i, _ := slices.BinarySearch(ready, sub)
				ready = slices.Insert(ready, i, sub)
			}
		}
	}

	for class, n := range waiting {
		if n > 0 {
			blocked = append(blocked, class)
		}
	}

	slices.Sort(blocked)

	return order, blocked
}
