// Package tmpl compiles `<% %>` / `<%= %>` micro-templates into reusable
// render functions.
//
// Literal text is copied verbatim, `<%= expr %>` writes the string form of an
// expression and `<% statement %>` drives control flow:
//
//	<% for name in fractals %>
//	  <li data-fractal="<%= name %>"><%= name %></li>
//	<% end %>
//
// Supported statements are `for NAME in EXPR`, `for KEY, VALUE in EXPR`,
// `if EXPR`, `else if EXPR`, `else`, `end`, `print(EXPR, ...)` and
// `set NAME = EXPR`. Brace delimited blocks are accepted too, so
// `<% for (var name in fractals) { %> ... <% } %>` compiles to the same
// template. Expressions are described in package expr.
//
// Templates never execute host code: statements and expressions are parsed
// into a fixed tree at compile time and syntax errors surface from Compile,
// not from rendering.
package tmpl
