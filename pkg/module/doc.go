// Package module groups bindings into reusable modules and offers a small
// fluent DSL for declaring them:
//
//	module.Func("greeter", func(c registry.Configurer) error {
//		module.Bind[string]().Named("app_name").ToInstance("greeter").SetOn(c)
//		module.Bind[Greeter]().QualifiedBy(English).Within(scope.Singleton).
//			ToClosure(NewEnglishGreeter).SetOn(c)
//		return nil
//	})
package module
