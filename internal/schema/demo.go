/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package schema

// Demo returns the entity registry used by the example tools.
// It models a small customer database with an embedded address.
func Demo() *Registry {
	reg := NewRegistry()
	address := reg.Entity("Address", "addresses").
		Property("street", "street").
		Property("city", "city").
		Property("zip", "zip").
		Build()
	reg.Entity("User", "users").
		Property("id", "id").
		Property("name", "name").
		Property("flags", "flags")
	reg.Entity("Customer", "customers").
		Property("id", "id").
		Property("name", "name").
		Property("balance", "balance").
		Embedded("address", address)
	return reg
}
