package constant

// AsciiArtLogo is the banner printed on top of the root command help.
const AsciiArtLogo = `
   ___ _           _
  / __(_)_ _  ___ | |__ _ _ _  ___
 | (__| | ' \/ -_)| / _' | ' \/ -_)
  \___|_|_||_\___||_\__,_|_||_\___|`
